package domain

import "errors"

var (
	// ErrInvalidInput is returned when the request carries no usable image:
	// missing file, unsupported format, oversize payload, or a malformed URL
	ErrInvalidInput = errors.New("invalid image input")

	// ErrVisionUnavailable is returned when the vision API call itself fails
	// (network, auth, quota, timeout)
	ErrVisionUnavailable = errors.New("vision API request failed")

	// ErrImageFetchFailed is returned when a caller-supplied image URL
	// cannot be fetched or does not point at an image
	ErrImageFetchFailed = errors.New("failed to fetch image from URL")

	// ErrProductNotFound is returned when a product ID is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCacheMiss is returned when an analysis is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
