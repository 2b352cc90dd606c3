package domain

// CategoryUnknown is the category assigned when the vision model could not
// determine one (or its output could not be parsed). Catalog categories
// never use this value, so an unknown category never triggers the boost.
const CategoryUnknown = "Unknown"

// Analysis is the structured description of a query image. One is produced
// per request and discarded afterwards.
type Analysis struct {
	Summary       string   `json:"summary"`
	Category      string   `json:"category"`
	Colors        []string `json:"colors"`
	Materials     []string `json:"materials"`
	Style         []string `json:"style"`
	Objects       []string `json:"objects"`
	SuggestedTags []string `json:"suggested_tags"`
}

// VisionResult is what a vision provider hands back for one image. Exactly
// one of the two fields is populated: Structured when the provider already
// decoded a well-formed analysis, RawText when all it has is model output
// text that still needs the tolerant parse cascade. A failed API call is an
// error, never a VisionResult.
type VisionResult struct {
	Structured *Analysis
	RawText    string
}
