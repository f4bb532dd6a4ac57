package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"flightassist-service/internal/domain/entity"
)

type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

type directSearchRequest struct {
	Origin        string           `json:"origin" binding:"required"`
	Destination   string           `json:"destination" binding:"required"`
	DepartureDate string           `json:"departure_date" binding:"required"`
	Passengers    int              `json:"passengers"`
	CabinClass    string           `json:"cabin_class"`
	Filters       *entity.FilterSet `json:"filters"`
}

// Search handles POST /api/v1/search
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(c, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	result, err := h.service.Search(c.Request.Context(), req.Query, CallerID(c))
	if err != nil {
		h.writeServiceError(c, "search", err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// SearchDirect handles POST /api/v1/search-direct
func (h *Handler) SearchDirect(c *gin.Context) {
	var req directSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "origin, destination and departure_date are required")
		return
	}

	params := entity.CanonicalParameters{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		Passengers:    req.Passengers,
		CabinClass:    entity.CabinClass(req.CabinClass),
	}
	if req.Filters != nil {
		params.Filters = req.Filters.Clone()
	}

	result, err := h.service.SearchDirect(c.Request.Context(), params)
	if err != nil {
		h.writeServiceError(c, "search_direct", err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// GetContext handles GET /api/v1/context
func (h *Handler) GetContext(c *gin.Context) {
	sc, err := h.service.GetContext(c.Request.Context(), CallerID(c))
	if err != nil {
		h.writeServiceError(c, "get_context", err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"context": sc})
}

// ResetContext handles POST /api/v1/context/reset
func (h *Handler) ResetContext(c *gin.Context) {
	n, err := h.service.ResetContext(c.Request.Context(), CallerID(c))
	if err != nil {
		h.writeServiceError(c, "reset_context", err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "cleared": n})
}

// AirlineStats handles GET /api/v1/airlines/stats
func (h *Handler) AirlineStats(c *gin.Context) {
	stats, err := h.service.AirlineStats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, "airline_stats", err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
