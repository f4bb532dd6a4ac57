package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
	"flightassist-service/templates"
)

// SearchService is the flight search surface the handlers drive
type SearchService interface {
	Search(ctx context.Context, query string, userID int64) (*entity.SearchResult, error)
	SearchDirect(ctx context.Context, params entity.CanonicalParameters) (*entity.SearchResult, error)
	GetContext(ctx context.Context, userID int64) (*entity.SearchContext, error)
	ResetContext(ctx context.Context, userID int64) (int64, error)
	AirlineStats(ctx context.Context) (*entity.QueryStats, error)
}

// Handler serves the flight assistant API
type Handler struct {
	service SearchService
	version string
	logger  logger.Logger
}

// NewHandler creates a new handler
func NewHandler(service SearchService, version string, logger logger.Logger) *Handler {
	return &Handler{
		service: service,
		version: version,
		logger:  logger,
	}
}

type errorResponse struct {
	Type        string   `json:"type,omitempty"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, kind, msg string) {
	writeJSON(c, status, errorResponse{Type: kind, Error: msg})
}

func (h *Handler) writeServiceError(c *gin.Context, op string, err error) {
	var general *entity.GeneralQueryError
	switch {
	case errors.As(err, &general):
		writeJSON(c, http.StatusBadRequest, errorResponse{
			Type:        "general_query",
			Error:       general.Message,
			Suggestions: general.Suggestions,
		})
	case errors.Is(err, entity.ErrMissingLocation):
		writeError(c, http.StatusBadRequest, "missing_location", templates.MissingLocationMessage)
	case errors.Is(err, entity.ErrInvalidRequest), errors.Is(err, entity.ErrInvalidDate):
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, entity.ErrContextNotFound):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	default:
		h.logger.Error("Request failed", "operation", op, "error", err)
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
