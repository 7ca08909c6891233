// README: Presets and feedback handlers.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voyage/internal/metrics"
	"voyage/internal/presets"
)

// Presets handles GET /api/presets.
func Presets(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"presets": presets.All()})
}

type FeedbackHandler struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewFeedbackHandler(m *metrics.Metrics, logger *slog.Logger) *FeedbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackHandler{metrics: m, logger: logger}
}

type feedbackReq struct {
	ItineraryID string `json:"itinerary_id"`
	Rating      string `json:"rating"`
}

// Create handles POST /api/feedback.
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	rating := strings.ToLower(strings.TrimSpace(req.Rating))
	if rating != "positive" && rating != "negative" {
		writeError(c, http.StatusBadRequest, "rating must be positive or negative")
		return
	}
	if strings.TrimSpace(req.ItineraryID) == "" {
		writeError(c, http.StatusBadRequest, "missing itinerary_id")
		return
	}

	h.metrics.ObserveFeedback(rating)
	h.logger.Info("itinerary feedback", "itinerary_id", req.ItineraryID, "rating", rating)
	writeJSON(c, http.StatusOK, gin.H{"status": "recorded"})
}
