package scoring

import (
	"math/rand"
	"strings"
	"time"

	"github.com/flowpark/backend/pkg/utils"
)

// Score weights. Calibrated per city; extend cityBase when onboarding one.
var cityBase = map[string]float64{
	"laval":  0.2,
	"rennes": 0.4,
}

const (
	defaultBase   = 0.2
	rushHourBonus = 0.4
	lunchBonus    = 0.2
	eventBonus    = 0.2
	weatherBonus  = 0.15
	weekendBonus  = 0.1
	jitterRange   = 0.03
)

// Summary thresholds partition [0,1] into three contiguous tiers.
const (
	fluidThreshold = 0.35
	tenseThreshold = 0.65
)

// Engine computes the heuristic parking difficulty score. The jitter source
// is injectable so tests can neutralize the random component.
type Engine struct {
	jitter func() float64
}

// NewEngine creates an engine with uniform jitter in [-0.03, 0.03].
func NewEngine() *Engine {
	return &Engine{
		jitter: func() float64 {
			return (rand.Float64()*2 - 1) * jitterRange
		},
	}
}

// NewEngineWithJitter creates an engine with a custom jitter source.
func NewEngineWithJitter(jitter func() float64) *Engine {
	return &Engine{jitter: jitter}
}

// Difficulty returns a parking difficulty score in [0, 1], weighted by city,
// time of day, live events, weather and weekends, plus a small random jitter
// modelling real-world unpredictability.
func (e *Engine) Difficulty(city string, weatherBad bool, eventCount int, now time.Time) float64 {
	score, ok := cityBase[strings.ToLower(city)]
	if !ok {
		score = defaultBase
	}

	hour := now.Hour()
	switch {
	case (hour >= 8 && hour <= 9) || (hour >= 17 && hour <= 19):
		score += rushHourBonus
	case hour >= 11 && hour <= 14:
		score += lunchBonus
	}

	// Flat bonus: one event already strains parking as much as several.
	if eventCount > 0 {
		score += eventBonus
	}

	if weatherBad {
		score += weatherBonus
	}

	if day := now.Weekday(); day == time.Saturday || day == time.Sunday {
		score += weekendBonus
	}

	score += e.jitter()

	return utils.Clamp(score, 0.0, 1.0)
}

// Summary maps a score to its human-readable tier.
func (e *Engine) Summary(score float64) string {
	switch {
	case score < fluidThreshold:
		return "Stationnement fluide (Vert)"
	case score < tenseThreshold:
		return "Stationnement tendu (Orange)"
	default:
		return "Secteur saturé (Rouge)"
	}
}
