// Package weather classifies the dominant weather condition over a departure window.
package weather

// Condition is a traveler-facing weather bucket.
type Condition string

// Weather conditions.
const (
	ConditionSunny    Condition = "sunny"
	ConditionPleasant Condition = "pleasant"
	ConditionCold     Condition = "cold"
	ConditionRainy    Condition = "rainy"
	ConditionWindy    Condition = "windy"
)

// conditionOrder is the tie-break order when picking the dominant condition.
var conditionOrder = [...]Condition{
	ConditionSunny,
	ConditionPleasant,
	ConditionCold,
	ConditionRainy,
	ConditionWindy,
}

// Display is the static presentation of a condition.
type Display struct {
	Emoji   string
	Label   string
	Message string
	Image   string
}

var displays = map[Condition]Display{
	ConditionSunny: {
		Emoji:   "☀️",
		Label:   "Sunny",
		Message: "Sun might drain your energy",
		Image:   "sunny.webp",
	},
	ConditionPleasant: {
		Emoji:   "🌤️",
		Label:   "Pleasant",
		Message: "Perfect weather to hit the road! Enjoy the ride 🎉",
		Image:   "pleasant.webp",
	},
	ConditionCold: {
		Emoji:   "🥶",
		Label:   "Cold",
		Message: "You might become a freezing block of ice",
		Image:   "cold.webp",
	},
	ConditionRainy: {
		Emoji:   "🌧️",
		Label:   "Rainy",
		Message: "You might soak in rain, not the ideal weather to travel maybe",
		Image:   "rainy.webp",
	},
	ConditionWindy: {
		Emoji:   "🌪️",
		Label:   "Windy / Stormy",
		Message: "Strong winds ahead! Hold onto your steering wheel tight",
		Image:   "windy.webp",
	},
}

// wmoBuckets maps WMO weather interpretation codes to buckets. Pleasant has no
// code of its own.
var wmoBuckets = map[int]Condition{
	// clear, mainly clear, partly cloudy, overcast
	0: ConditionSunny, 1: ConditionSunny, 2: ConditionSunny, 3: ConditionSunny,
	// fog
	45: ConditionCold, 48: ConditionCold,
	// drizzle
	51: ConditionRainy, 53: ConditionRainy, 55: ConditionRainy,
	56: ConditionRainy, 57: ConditionRainy,
	// rain
	61: ConditionRainy, 63: ConditionRainy, 65: ConditionRainy,
	66: ConditionRainy, 67: ConditionRainy,
	// snow
	71: ConditionCold, 73: ConditionCold, 75: ConditionCold, 77: ConditionCold,
	// showers
	80: ConditionRainy, 81: ConditionRainy, 82: ConditionRainy,
	// snow showers
	85: ConditionCold, 86: ConditionCold,
	// thunderstorm
	95: ConditionWindy, 96: ConditionWindy, 99: ConditionWindy,
}

// BucketForCode returns the bucket for a WMO code; unknown codes are sunny.
func BucketForCode(code int) Condition {
	if c, ok := wmoBuckets[code]; ok {
		return c
	}
	return ConditionSunny
}

// DisplayFor returns the presentation tuple for a condition.
func DisplayFor(c Condition) Display {
	return displays[c]
}

// Tally counts samples per condition.
type Tally map[Condition]int

// Dominant returns the condition with the highest count, first in tie-break order on ties.
func (t Tally) Dominant() Condition {
	best := conditionOrder[0]
	for _, c := range conditionOrder[1:] {
		if t[c] > t[best] {
			best = c
		}
	}
	return best
}
