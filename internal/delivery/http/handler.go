package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/visualmatch/backend/internal/domain"
	"github.com/visualmatch/backend/internal/usecase"
)

// allowedExtensions maps accepted upload extensions to their MIME types.
var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService  *usecase.SearchService
	catalog        domain.CatalogRepository
	visionProvider string
	maxUploadBytes int64
	topResults     int
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService *usecase.SearchService, catalog domain.CatalogRepository, visionProvider string, maxUploadBytes int64, topResults int) *Handler {
	return &Handler{
		searchService:  searchService,
		catalog:        catalog,
		visionProvider: visionProvider,
		maxUploadBytes: maxUploadBytes,
		topResults:     topResults,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "visualmatch-backend",
		"products_count":  len(h.catalog.All()),
		"vision_provider": h.visionProvider,
	})
}

// searchURLRequest is the JSON body for URL-based searches.
type searchURLRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// scoredProduct is the wire form of a match with the score rounded
// for presentation.
type scoredProduct struct {
	Product    domain.Product `json:"product"`
	Similarity float64        `json:"similarity"`
}

// Search handles visual product search requests. It accepts either a
// multipart upload under the "image" field or a JSON body carrying an
// image URL.
func (h *Handler) Search(c *gin.Context) {
	contentType := c.ContentType()

	var result *domain.SearchResult
	var err error

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		result, err = h.searchUpload(c)
	case contentType == "application/json":
		result, err = h.searchURL(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "expected multipart/form-data with an 'image' field or application/json with 'image_url'",
		})
		return
	}

	if err != nil {
		h.respondSearchError(c, err)
		return
	}

	matches := result.Matches
	if len(matches) > h.topResults {
		matches = matches[:h.topResults]
	}

	results := make([]scoredProduct, 0, len(matches))
	for _, m := range matches {
		results = append(results, scoredProduct{
			Product:    m.Product,
			Similarity: roundScore(m.Similarity),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"analysis":      result.Analysis,
		"results":       results,
		"total_results": len(results),
	})
}

func (h *Handler) searchUpload(c *gin.Context) (*domain.SearchResult, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: missing 'image' field: %v", domain.ErrInvalidInput, err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}

	if fileHeader.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, h.maxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening upload: %v", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", domain.ErrInvalidInput, err)
	}

	return h.searchService.SearchByImage(c.Request.Context(), data, mimeType)
}

func (h *Handler) searchURL(c *gin.Context) (*domain.SearchResult, error) {
	var req searchURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return h.searchService.SearchByURL(c.Request.Context(), req.ImageURL)
}

func (h *Handler) respondSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVisionUnavailable):
		log.Printf("[HTTP] vision provider failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Vision API temporarily unavailable"})
	default:
		log.Printf("[HTTP] search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListProducts returns the catalog, optionally filtered by category.
func (h *Handler) ListProducts(c *gin.Context) {
	var products []domain.Product
	if category := c.Query("category"); category != "" {
		products = h.catalog.ByCategory(category)
	} else {
		products = h.catalog.All()
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns a single product by its numeric ID.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product ID must be an integer"})
		return
	}

	product, err := h.catalog.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[HTTP] product lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListCategories returns the sorted distinct category names.
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalog.Categories(),
	})
}

// roundScore rounds a similarity score to four decimal places for
// presentation.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
