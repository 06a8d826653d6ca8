// Package level adjusts the n-back lag between sessions.
package level

import (
	"fmt"

	"github.com/grandinquisitor/swipeback/internal/model"
)

// Rules holds the adaptive thresholds and lag bounds.
type Rules struct {
	Up          int
	Down        int
	Min         int
	Max         int
	DownEnabled bool
}

// DefaultRules returns the standard adaptive configuration.
func DefaultRules() Rules {
	return Rules{
		Up:          80,
		Down:        50,
		Min:         model.MinLevel,
		Max:         model.MaxLevel,
		DownEnabled: true,
	}
}

// Validate checks the rules for contradictory settings.
func (r Rules) Validate() error {
	if r.Up < 0 || r.Up > 100 {
		return fmt.Errorf("up threshold must be in [0,100], got %d", r.Up)
	}
	if r.Down < 0 || r.Down > 100 {
		return fmt.Errorf("down threshold must be in [0,100], got %d", r.Down)
	}
	if r.DownEnabled && r.Down >= r.Up {
		return fmt.Errorf("down threshold %d must be below up threshold %d", r.Down, r.Up)
	}
	if r.Min < model.MinLevel || r.Max > model.MaxLevel || r.Min > r.Max {
		return fmt.Errorf("level bounds [%d,%d] must lie within [%d,%d]", r.Min, r.Max, model.MinLevel, model.MaxLevel)
	}
	return nil
}

// Next returns the lag for the following session given the overall
// score of the one just finished. Levels pinned at a bound stay there.
func Next(current, overallPct int, rules Rules) int {
	if overallPct >= rules.Up && current < rules.Max {
		return current + 1
	}
	if rules.DownEnabled && overallPct < rules.Down && current > rules.Min {
		return current - 1
	}
	return current
}
