// README: Plain-text rendering and download filenames for itineraries.
package itinerary

import (
	"fmt"
	"strings"
)

const dayDateLayout = "Mon Jan 2"

func renderDays(days []Day) string {
	blocks := make([]string, 0, len(days))
	for _, d := range days {
		heading := fmt.Sprintf("Day %d (%s)", d.Number, d.Date.Format(dayDateLayout))
		if d.Title != "" {
			heading += ": " + d.Title
		}
		if d.Body == "" {
			blocks = append(blocks, heading)
			continue
		}
		blocks = append(blocks, heading+"\n"+d.Body)
	}
	return strings.Join(blocks, "\n\n")
}

// Render is the downloadable text form of it.
func Render(it Itinerary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "AI Travel Itinerary for %s\n\n", it.City())
	fmt.Fprintf(&b, "City: %s\n", it.City())
	fmt.Fprintf(&b, "Interests: %s\n\n", strings.Join(it.Interests(), ", "))
	b.WriteString(it.Body())
	b.WriteString("\n")
	return b.String()
}

// Filename derives the download name from the city: lower-cased with spaces
// turned into underscores.
func Filename(city string) string {
	name := strings.ToLower(strings.TrimSpace(city))
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	if name == "" {
		name = "trip"
	}
	return "itinerary_" + name + ".txt"
}
