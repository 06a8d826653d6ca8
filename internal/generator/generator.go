// Package generator builds dual n-back trial sequences.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/grandinquisitor/swipeback/internal/model"
)

// Ratios sets the share of matchable trials planned per match type.
// Dual matches are planned separately from the single-channel sets.
type Ratios struct {
	Dual     float64
	Position float64
	Audio    float64
}

// DefaultRatios returns the standard match planning ratios.
func DefaultRatios() Ratios {
	return Ratios{Dual: 0.10, Position: 0.20, Audio: 0.20}
}

// Validate checks the ratios for impossible targets.
func (r Ratios) Validate() error {
	for name, v := range map[string]float64{"dual": r.Dual, "position": r.Position, "audio": r.Audio} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s ratio must be in [0,1], got %.2f", name, v)
		}
	}
	if sum := r.Dual + r.Position + r.Audio; sum > 1 {
		return fmt.Errorf("ratios must sum to at most 1, got %.2f", sum)
	}
	return nil
}

// Minimum planned counts per match type when the ratios round too low.
const (
	minDual   = 1
	minSingle = 2
)

// MinTrialsFor returns the smallest valid trial count for a lag. Below
// this there is no room for one trial of each match type.
func MinTrialsFor(n int) int {
	return n + 4
}

// Generator produces randomized trial plans.
type Generator struct {
	rnd     *rand.Rand
	symbols []rune
	ratios  Ratios
}

// New returns a Generator seeded with the current time.
func New(symbols []rune) *Generator {
	return NewWithSeed(symbols, time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed for reproducible plans.
func NewWithSeed(symbols []rune, seed int64) *Generator {
	return &Generator{
		rnd:     rand.New(rand.NewSource(seed)),
		symbols: symbols,
		ratios:  DefaultRatios(),
	}
}

// SetRatios overrides the default match planning ratios.
func (g *Generator) SetRatios(r Ratios) error {
	if err := r.Validate(); err != nil {
		return err
	}
	g.ratios = r
	return nil
}

// Generate plans a sequence of totalTrials stimuli for lag n.
//
// Match locations are chosen before any values so that match density is
// exact and a trial not planned as a match can never accidentally repeat
// its lag-n counterpart. Flags are set from the plan, not by comparing
// values.
func (g *Generator) Generate(n, totalTrials int) (model.Sequence, error) {
	if n < model.MinLevel {
		return nil, fmt.Errorf("level must be >= %d, got %d", model.MinLevel, n)
	}
	if len(g.symbols) < 2 {
		return nil, fmt.Errorf("alphabet must have at least 2 symbols, got %d", len(g.symbols))
	}
	if totalTrials < MinTrialsFor(n) {
		return nil, fmt.Errorf("trials must be >= %d for level %d, got %d", MinTrialsFor(n), n, totalTrials)
	}

	matchable := totalTrials - n
	dual := targetCount(matchable, g.ratios.Dual, minDual)
	positionOnly := targetCount(matchable, g.ratios.Position, minSingle)
	audioOnly := targetCount(matchable, g.ratios.Audio, minSingle)
	dual, positionOnly, audioOnly = fitCounts(matchable, dual, positionOnly, audioOnly)

	positionOnlySet, audioOnlySet, dualSet := g.planMatchIndices(n, totalTrials, positionOnly, audioOnly, dual)

	seq := make(model.Sequence, totalTrials)
	for i := 0; i < totalTrials; i++ {
		if i < n {
			seq[i] = model.Stimulus{
				Position: g.rnd.Intn(model.GridCells),
				Symbol:   g.symbols[g.rnd.Intn(len(g.symbols))],
			}
			continue
		}
		_, dualHere := dualSet[i]
		_, posHere := positionOnlySet[i]
		_, audHere := audioOnlySet[i]
		positionMatch := posHere || dualHere
		audioMatch := audHere || dualHere

		prev := seq[i-n]
		stim := model.Stimulus{PositionMatch: positionMatch, AudioMatch: audioMatch}
		if positionMatch {
			stim.Position = prev.Position
		} else {
			stim.Position = g.drawCellExcluding(prev.Position)
		}
		if audioMatch {
			stim.Symbol = prev.Symbol
		} else {
			stim.Symbol = g.drawSymbolExcluding(prev.Symbol)
		}
		seq[i] = stim
	}
	return seq, nil
}

// fitCounts trims oversized targets to the eligible index budget,
// shrinking the largest single-channel set first so that every match
// type keeps at least one index whenever the budget allows.
func fitCounts(matchable, dual, positionOnly, audioOnly int) (int, int, int) {
	for dual+positionOnly+audioOnly > matchable {
		switch {
		case positionOnly >= audioOnly && positionOnly > 1:
			positionOnly--
		case audioOnly > 1:
			audioOnly--
		case dual > 1:
			dual--
		default:
			// All at one; the budget cannot shrink further.
			return dual, positionOnly, audioOnly
		}
	}
	return dual, positionOnly, audioOnly
}

// planMatchIndices selects three disjoint index sets in [n, totalTrials).
// Selection shuffles the eligible range and slices it, so requested
// counts that exceed the available indices clamp instead of looping.
func (g *Generator) planMatchIndices(n, totalTrials, positionOnly, audioOnly, dual int) (positionSet, audioSet, dualSet map[int]struct{}) {
	eligible := make([]int, 0, totalTrials-n)
	for i := n; i < totalTrials; i++ {
		eligible = append(eligible, i)
	}
	g.rnd.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	positionSet = map[int]struct{}{}
	audioSet = map[int]struct{}{}
	dualSet = map[int]struct{}{}
	for _, want := range []struct {
		count int
		set   map[int]struct{}
	}{
		{positionOnly, positionSet},
		{audioOnly, audioSet},
		{dual, dualSet},
	} {
		take := want.count
		if take > len(eligible) {
			take = len(eligible)
		}
		for _, idx := range eligible[:take] {
			want.set[idx] = struct{}{}
		}
		eligible = eligible[take:]
	}
	return positionSet, audioSet, dualSet
}

func (g *Generator) drawCellExcluding(exclude int) int {
	cell := g.rnd.Intn(model.GridCells - 1)
	if cell >= exclude {
		cell++
	}
	return cell
}

func (g *Generator) drawSymbolExcluding(exclude rune) rune {
	idx := -1
	for i, s := range g.symbols {
		if s == exclude {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g.symbols[g.rnd.Intn(len(g.symbols))]
	}
	pick := g.rnd.Intn(len(g.symbols) - 1)
	if pick >= idx {
		pick++
	}
	return g.symbols[pick]
}

func targetCount(matchable int, ratio float64, minimum int) int {
	count := int(math.Round(float64(matchable) * ratio))
	if count < minimum {
		count = minimum
	}
	return count
}
