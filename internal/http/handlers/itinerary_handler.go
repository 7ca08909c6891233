// README: Itinerary handler (plan a trip, optionally as a text download).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"voyage/internal/modules/itinerary"
	"voyage/internal/service"
)

// Planner is the engine call boundary.
type Planner interface {
	Plan(ctx context.Context, req service.Request) (itinerary.Itinerary, error)
}

type ItineraryHandler struct {
	planner Planner
	timeout time.Duration
}

func NewItineraryHandler(planner Planner, timeout time.Duration) *ItineraryHandler {
	return &ItineraryHandler{planner: planner, timeout: timeout}
}

type planReq struct {
	City      string `json:"city"`
	Interests string `json:"interests"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Adults    int    `json:"adults"`
	Children  int    `json:"children"`
}

// Create handles POST /api/itineraries. With ?format=text the itinerary is
// returned as a plain-text attachment.
func (h *ItineraryHandler) Create(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	it, err := h.planner.Plan(ctx, service.Request{
		City:      req.City,
		Interests: req.Interests,
		StartDate: start,
		EndDate:   end,
		Adults:    req.Adults,
		Children:  req.Children,
	})
	if err != nil {
		writePlanError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "text") {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, itinerary.Filename(it.City())))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(itinerary.Render(it)))
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"itinerary": it})
}

// parseDate accepts YYYY-MM-DD; an empty value is left for the normalizer
// to reject.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, v)
}
