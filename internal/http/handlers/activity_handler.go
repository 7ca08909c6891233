// README: Activity handler (records, summary, text export).
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"voyage/internal/modules/activity"
)

type ActivityHandler struct {
	log *activity.Log
	now func() time.Time
}

func NewActivityHandler(log *activity.Log) *ActivityHandler {
	return &ActivityHandler{log: log, now: time.Now}
}

// List handles GET /api/activity?status=Success&status=Error.
func (h *ActivityHandler) List(c *gin.Context) {
	statuses, ok := parseStatuses(c)
	if !ok {
		return
	}
	records := h.log.Filter(statuses...)
	writeJSON(c, http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// Summary handles GET /api/activity/summary.
func (h *ActivityHandler) Summary(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.log.Summary())
}

// Export handles GET /api/activity/export.
func (h *ActivityHandler) Export(c *gin.Context) {
	statuses, ok := parseStatuses(c)
	if !ok {
		return
	}
	name := activity.ExportFilename(h.now().In(h.log.Location()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(activity.ExportText(h.log.Filter(statuses...))))
}

func parseStatuses(c *gin.Context) ([]activity.Status, bool) {
	var out []activity.Status
	for _, raw := range c.QueryArray("status") {
		for _, v := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "":
			case "success":
				out = append(out, activity.StatusSuccess)
			case "error":
				out = append(out, activity.StatusError)
			default:
				writeError(c, http.StatusBadRequest, "status must be Success or Error")
				return nil, false
			}
		}
	}
	return out, true
}
