// README: Quick-start destination presets offered to API and CLI users.
package presets

import "strings"

// Preset is a ready-made city and interests pair.
type Preset struct {
	City        string `json:"city"`
	Interests   string `json:"interests"`
	Description string `json:"description"`
}

var all = []Preset{
	{"Paris", "museums, food, history, art", "Romantic city with art and culture"},
	{"Tokyo", "technology, food, temples, shopping", "Modern metropolis with tradition"},
	{"New York", "museums, food, broadway, shopping", "The city that never sleeps"},
	{"Dubai", "luxury, shopping, desert safari, architecture", "Luxury and desert adventures"},
	{"Rome", "history, food, architecture, art", "Eternal city of ancient wonders"},
	{"Bali", "beaches, temples, nature, wellness", "Tropical island paradise"},
	{"London", "museums, history, theater, food", "Royal heritage and culture"},
	{"Switzerland", "mountains, skiing, nature, chocolate", "Alpine scenery and lakes"},
	{"Barcelona", "beaches, architecture, food, nightlife", "Gaudi, beaches and tapas"},
	{"Singapore", "food, shopping, gardens, architecture", "Garden city of the future"},
	{"Iceland", "nature, hot springs, northern lights, hiking", "Fire and ice landscapes"},
	{"Maldives", "beaches, diving, luxury resorts, relaxation", "Overwater villas and reefs"},
	{"Goa", "beaches, nightlife, water sports, Portuguese heritage", "Beach paradise with vibrant nightlife"},
	{"Jaipur", "palaces, forts, culture, shopping, food", "The Pink City with royal palaces"},
	{"Kerala", "backwaters, beaches, ayurveda, nature, houseboats", "God's Own Country with backwaters"},
	{"Agra", "Taj Mahal, monuments, history, Mughal architecture", "Home of the Taj Mahal"},
	{"Udaipur", "lakes, palaces, heritage, culture, romantic settings", "City of Lakes and palaces"},
	{"Varanasi", "spirituality, Ganges, temples, culture, rituals", "Spiritual capital on the Ganges"},
	{"Rishikesh", "yoga, rafting, adventure, spirituality, nature", "Yoga capital and adventure hub"},
	{"Manali", "mountains, skiing, trekking, adventure, nature", "Hill station with snow-capped peaks"},
	{"Ladakh", "mountains, monasteries, adventure, biking, landscapes", "Land of high passes and monasteries"},
	{"Mumbai", "Bollywood, beaches, food, nightlife, shopping", "City of dreams and Bollywood"},
	{"Kolkata", "culture, food, heritage, art, literature", "Cultural capital with colonial heritage"},
	{"Hampi", "ruins, history, temples, architecture, bouldering", "Ancient ruins and boulder landscapes"},
}

// All returns a copy of every preset in display order.
func All() []Preset {
	out := make([]Preset, len(all))
	copy(out, all)
	return out
}

// Find looks a preset up by city, case-insensitively.
func Find(city string) (Preset, bool) {
	city = strings.TrimSpace(city)
	for _, p := range all {
		if strings.EqualFold(p.City, city) {
			return p, true
		}
	}
	return Preset{}, false
}
