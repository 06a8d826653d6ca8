package generator

import (
	"testing"

	"github.com/grandinquisitor/swipeback/internal/model"
)

var testSymbols = []rune("chklqrst")

func TestGenerateLengthAndPrefix(t *testing.T) {
	gen := NewWithSeed(testSymbols, 1)
	seq, err := gen.Generate(2, 20)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(seq) != 20 {
		t.Fatalf("expected 20 trials, got %d", len(seq))
	}
	for i := 0; i < 2; i++ {
		if seq[i].PositionMatch || seq[i].AudioMatch {
			t.Fatalf("trial %d before lag has match flags set: %+v", i, seq[i])
		}
	}
}

func TestGenerateFlagsConsistentWithValues(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		gen := NewWithSeed(testSymbols, seed)
		seq, err := gen.Generate(3, 30)
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		for i := 3; i < len(seq); i++ {
			prev := seq[i-3]
			if seq[i].PositionMatch != (seq[i].Position == prev.Position) {
				t.Fatalf("seed %d trial %d: position flag %v inconsistent with values %d vs %d",
					seed, i, seq[i].PositionMatch, seq[i].Position, prev.Position)
			}
			if seq[i].AudioMatch != (seq[i].Symbol == prev.Symbol) {
				t.Fatalf("seed %d trial %d: audio flag %v inconsistent with values %q vs %q",
					seed, i, seq[i].AudioMatch, seq[i].Symbol, prev.Symbol)
			}
		}
	}
}

func TestGenerateValuesInDomain(t *testing.T) {
	gen := NewWithSeed(testSymbols, 7)
	seq, err := gen.Generate(2, 50)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	symbolSet := map[rune]struct{}{}
	for _, s := range testSymbols {
		symbolSet[s] = struct{}{}
	}
	for i, stim := range seq {
		if stim.Position < 0 || stim.Position >= model.GridCells {
			t.Fatalf("trial %d: position %d out of grid", i, stim.Position)
		}
		if _, ok := symbolSet[stim.Symbol]; !ok {
			t.Fatalf("trial %d: symbol %q not in alphabet", i, stim.Symbol)
		}
	}
}

func TestGenerateMatchCounts(t *testing.T) {
	// matchable = 18: dual = 2, position-only = 4, audio-only = 4.
	for seed := int64(0); seed < 20; seed++ {
		gen := NewWithSeed(testSymbols, seed)
		seq, err := gen.Generate(2, 20)
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		position, audio, dual := 0, 0, 0
		for _, stim := range seq {
			if stim.PositionMatch {
				position++
			}
			if stim.AudioMatch {
				audio++
			}
			if stim.PositionMatch && stim.AudioMatch {
				dual++
			}
		}
		if dual != 2 {
			t.Fatalf("seed %d: expected 2 dual matches, got %d", seed, dual)
		}
		if position != 6 {
			t.Fatalf("seed %d: expected 6 position matches (4 single + 2 dual), got %d", seed, position)
		}
		if audio != 6 {
			t.Fatalf("seed %d: expected 6 audio matches (4 single + 2 dual), got %d", seed, audio)
		}
	}
}

func TestGenerateClampsWhenMatchableIsSmall(t *testing.T) {
	// matchable = 4 but the minimums request 5; the plan clamps
	// instead of looping, and the trim must leave at least one trial
	// of each match type at the smallest accepted configuration.
	for seed := int64(0); seed < 50; seed++ {
		gen := NewWithSeed(testSymbols, seed)
		seq, err := gen.Generate(6, 10)
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		positionOnly, audioOnly, dual, planned := 0, 0, 0, 0
		for _, stim := range seq {
			switch {
			case stim.PositionMatch && stim.AudioMatch:
				dual++
			case stim.PositionMatch:
				positionOnly++
			case stim.AudioMatch:
				audioOnly++
			}
			if stim.PositionMatch || stim.AudioMatch {
				planned++
			}
		}
		if planned > 4 {
			t.Fatalf("seed %d: planned %d match trials with only 4 eligible indices", seed, planned)
		}
		if dual == 0 {
			t.Fatalf("seed %d: no dual match planned at trials = n+4", seed)
		}
		if positionOnly == 0 || audioOnly == 0 {
			t.Fatalf("seed %d: expected every match type, got position-only=%d audio-only=%d dual=%d",
				seed, positionOnly, audioOnly, dual)
		}
	}
}

func TestSetRatiosOverridesTargets(t *testing.T) {
	// matchable = 20 with swapped ratios: dual = 4, singles clamp to
	// their minimum of 2.
	for seed := int64(0); seed < 10; seed++ {
		gen := NewWithSeed(testSymbols, seed)
		if err := gen.SetRatios(Ratios{Dual: 0.20, Position: 0.10, Audio: 0.10}); err != nil {
			t.Fatalf("set ratios: %v", err)
		}
		seq, err := gen.Generate(2, 22)
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		position, audio, dual := 0, 0, 0
		for _, stim := range seq {
			if stim.PositionMatch {
				position++
			}
			if stim.AudioMatch {
				audio++
			}
			if stim.PositionMatch && stim.AudioMatch {
				dual++
			}
		}
		if dual != 4 {
			t.Fatalf("seed %d: expected 4 dual matches, got %d", seed, dual)
		}
		if position != 6 || audio != 6 {
			t.Fatalf("seed %d: expected 6 matches per channel, got position=%d audio=%d", seed, position, audio)
		}
	}
}

func TestSetRatiosRejectsBadValues(t *testing.T) {
	gen := NewWithSeed(testSymbols, 1)
	bad := []Ratios{
		{Dual: -0.1, Position: 0.2, Audio: 0.2},
		{Dual: 0.1, Position: 1.2, Audio: 0.2},
		{Dual: 0.5, Position: 0.4, Audio: 0.4},
	}
	for i, r := range bad {
		if err := gen.SetRatios(r); err == nil {
			t.Fatalf("case %d: expected error for %+v", i, r)
		}
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	gen := NewWithSeed(testSymbols, 1)
	cases := []struct {
		name   string
		n      int
		trials int
	}{
		{"zero level", 0, 20},
		{"negative level", -1, 20},
		{"trials below lag", 5, 4},
		{"trials equal lag", 5, 5},
		{"no room for matches", 5, 8},
	}
	for _, tc := range cases {
		if _, err := gen.Generate(tc.n, tc.trials); err == nil {
			t.Fatalf("%s: expected error for n=%d trials=%d", tc.name, tc.n, tc.trials)
		}
	}
}

func TestGenerateRejectsTinyAlphabet(t *testing.T) {
	gen := NewWithSeed([]rune("c"), 1)
	if _, err := gen.Generate(2, 20); err == nil {
		t.Fatalf("expected error for single-symbol alphabet")
	}
}

func TestDrawCellExcludingNeverRepeats(t *testing.T) {
	gen := NewWithSeed(testSymbols, 11)
	for exclude := 0; exclude < model.GridCells; exclude++ {
		for i := 0; i < 50; i++ {
			cell := gen.drawCellExcluding(exclude)
			if cell == exclude {
				t.Fatalf("drew excluded cell %d", exclude)
			}
			if cell < 0 || cell >= model.GridCells {
				t.Fatalf("cell %d out of grid", cell)
			}
		}
	}
}

func TestDrawSymbolExcludingNeverRepeats(t *testing.T) {
	gen := NewWithSeed(testSymbols, 13)
	for _, exclude := range testSymbols {
		for i := 0; i < 50; i++ {
			if s := gen.drawSymbolExcluding(exclude); s == exclude {
				t.Fatalf("drew excluded symbol %q", exclude)
			}
		}
	}
}
