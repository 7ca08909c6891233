// README: Plain-text export of activity records.
package activity

import (
	"fmt"
	"strings"
	"time"
)

// ExportText renders one line per record:
// [timestamp] [status] action | City: c | Error: e
func ExportText(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "[%s] [%s] %s | City: %s", r.Timestamp.Format(DisplayLayout), r.Status, r.Action, r.City)
		if r.Error != "" {
			fmt.Fprintf(&b, " | Error: %s", r.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ExportFilename is system_logs_YYYYMMDD_HHMMSS.txt for now.
func ExportFilename(now time.Time) string {
	return "system_logs_" + now.Format("20060102_150405") + ".txt"
}
