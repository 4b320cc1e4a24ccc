package domain

// Condition is the coarse weather classification used by the scoring engine
type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionBad     Condition = "bad"
	ConditionUnknown Condition = "unknown"
)

// WeatherReading represents the current weather for a city.
// Temperature is nil when the upstream feed was unreachable or malformed.
type WeatherReading struct {
	Condition   Condition `json:"condition"`
	IsBad       bool      `json:"is_bad"`
	Temperature *float64  `json:"temperature,omitempty"`
}
