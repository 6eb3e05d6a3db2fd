package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/technician-matching/internal/domain/matching"
	apperrors "github.com/yanqian/technician-matching/pkg/errors"
)

// TechnicianHandler exposes the ranking service over HTTP.
type TechnicianHandler struct {
	svc    matching.Service
	logger *slog.Logger
}

// NewTechnicianHandler constructs the technician HTTP handler.
func NewTechnicianHandler(svc matching.Service, logger *slog.Logger) *TechnicianHandler {
	return &TechnicianHandler{
		svc:    svc,
		logger: logger.With("component", "http.technician_handler"),
	}
}

// FindAvailable ranks available technicians for the requester's location and category.
func (h *TechnicianHandler) FindAvailable(c *gin.Context) {
	query, err := parseQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := h.svc.FindAvailableTechnicians(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Categories lists the supported service categories.
func (h *TechnicianHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.svc.Categories()})
}

// TrendingCategories returns the most searched categories.
func (h *TechnicianHandler) TrendingCategories(c *gin.Context) {
	items, err := h.svc.TrendingCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": items})
}

// Health reports liveness.
func (h *TechnicianHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseQuery(c *gin.Context) (matching.Query, error) {
	q := matching.Query{
		Category: matching.ParseSpecialty(c.Query("category")),
		Lat:      parseCoordinate(c.Query("lat")),
		Lng:      parseCoordinate(c.Query("lng")),
		RadiusKm: parseRadius(firstNonEmpty(c.Query("radiusInKm"), c.Query("radius"))),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return matching.Query{}, apperrors.Wrap(apperrors.CodeInvalidInput, "limit must be an integer", err)
		}
		q.Limit = limit
	}
	return q, nil
}

// parseCoordinate treats malformed values the same as absent ones.
func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseRadius keeps a malformed radius as NaN so the soft radius filter is disabled
// rather than falling back to the default.
func parseRadius(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = math.NaN()
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
