package scorer

import (
	"testing"

	"github.com/grandinquisitor/swipeback/internal/model"
)

// buildSequence places position matches at the given indices of a
// 20-trial lag-2 plan.
func buildSequence(trials, n int, positionMatches, audioMatches map[int]bool) model.Sequence {
	seq := make(model.Sequence, trials)
	for i := n; i < trials; i++ {
		seq[i].PositionMatch = positionMatches[i]
		seq[i].AudioMatch = audioMatches[i]
	}
	return seq
}

func TestScorePerfectPositionChannel(t *testing.T) {
	matches := map[int]bool{4: true, 9: true, 15: true}
	seq := buildSequence(20, 2, matches, nil)
	responses := make([]model.Response, 20)
	for i := range matches {
		responses[i].Position = model.MarkYes
	}

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.PositionPct != 100 {
		t.Fatalf("expected 100%% position, got %d%%", result.PositionPct)
	}
	if result.Position.TP != 3 || result.Position.FP != 0 || result.Position.FN != 0 {
		t.Fatalf("unexpected position tally: %+v", result.Position)
	}
}

func TestScoreAllUnsetIsZero(t *testing.T) {
	seq := buildSequence(20, 2, map[int]bool{5: true}, map[int]bool{8: true})
	responses := make([]model.Response, 20)

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.PositionPct != 0 || result.AudioPct != 0 || result.OverallPct != 0 {
		t.Fatalf("expected all zero for no responses, got %+v", result)
	}
	if result.Position.FN != 1 || result.Audio.FN != 1 {
		t.Fatalf("expected one missed match per channel, got %+v %+v", result.Position, result.Audio)
	}
}

func TestScoreExcludesTrueNegatives(t *testing.T) {
	// One match answered correctly plus 17 untouched non-matches must
	// score 100%, not be diluted by the easy majority.
	seq := buildSequence(20, 2, map[int]bool{10: true}, nil)
	responses := make([]model.Response, 20)
	responses[10].Position = model.MarkYes

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.PositionPct != 100 {
		t.Fatalf("expected 100%%, got %d%%", result.PositionPct)
	}
}

func TestScoreCountsFalsePositives(t *testing.T) {
	seq := buildSequence(20, 2, map[int]bool{6: true}, nil)
	responses := make([]model.Response, 20)
	responses[6].Position = model.MarkYes
	responses[7].Position = model.MarkYes
	responses[8].Position = model.MarkYes

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Position.TP != 1 || result.Position.FP != 2 || result.Position.FN != 0 {
		t.Fatalf("unexpected tally: %+v", result.Position)
	}
	// 1/(1+2+0) = 33%.
	if result.PositionPct != 33 {
		t.Fatalf("expected 33%%, got %d%%", result.PositionPct)
	}
}

func TestScoreMarkNoCountsAsMiss(t *testing.T) {
	seq := buildSequence(20, 2, map[int]bool{6: true}, nil)
	responses := make([]model.Response, 20)
	responses[6].Position = model.MarkNo

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Position.FN != 1 || result.Position.TP != 0 {
		t.Fatalf("expected explicit no on a match to count as a miss: %+v", result.Position)
	}
}

func TestScoreOverallCombinesChannels(t *testing.T) {
	seq := buildSequence(20, 2, map[int]bool{4: true, 8: true}, map[int]bool{5: true, 9: true})
	responses := make([]model.Response, 20)
	responses[4].Position = model.MarkYes
	responses[8].Position = model.MarkYes
	responses[5].Audio = model.MarkYes
	// Audio match at 9 missed: overall = (2+1)/(2+2) = 75%.

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.OverallPct != 75 {
		t.Fatalf("expected 75%% overall, got %d%%", result.OverallPct)
	}
}

func TestScoreIgnoresTrialsBeforeLag(t *testing.T) {
	seq := make(model.Sequence, 20)
	responses := make([]model.Response, 20)
	// Marks on the unmatchable prefix must not count as false positives.
	responses[0].Position = model.MarkYes
	responses[1].Audio = model.MarkYes
	seq[10].PositionMatch = true
	responses[10].Position = model.MarkYes

	result, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Position.FP != 0 || result.Audio.FP != 0 {
		t.Fatalf("prefix marks counted: %+v %+v", result.Position, result.Audio)
	}
	if result.PositionPct != 100 {
		t.Fatalf("expected 100%%, got %d%%", result.PositionPct)
	}
}

func TestScoreIsPure(t *testing.T) {
	seq := buildSequence(20, 2, map[int]bool{4: true}, map[int]bool{7: true})
	responses := make([]model.Response, 20)
	responses[4].Position = model.MarkYes

	first, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	second, err := Score(seq, responses, 2)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if first != second {
		t.Fatalf("score not deterministic: %+v vs %+v", first, second)
	}
}

func TestScoreRejectsLengthMismatch(t *testing.T) {
	seq := make(model.Sequence, 20)
	responses := make([]model.Response, 19)
	if _, err := Score(seq, responses, 2); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}

func TestScoreRejectsBadLevel(t *testing.T) {
	seq := make(model.Sequence, 20)
	responses := make([]model.Response, 20)
	if _, err := Score(seq, responses, 0); err == nil {
		t.Fatalf("expected error for non-positive level")
	}
}

func TestScoreRejectsLagBeyondSequence(t *testing.T) {
	seq := make(model.Sequence, 5)
	responses := make([]model.Response, 5)
	for _, n := range []int{5, 6} {
		if _, err := Score(seq, responses, n); err == nil {
			t.Fatalf("expected error for lag %d over 5 trials", n)
		}
	}
}
