// Package scorer computes session scores from trial plans and responses.
package scorer

import (
	"fmt"
	"math"

	"github.com/grandinquisitor/swipeback/internal/model"
)

// Score evaluates player responses against a generated sequence.
//
// Only trials at index n and beyond carry ground truth. Per channel,
// a responded match on a match trial is a true positive, a responded
// match on a non-match trial is a false positive, and a missed match
// is a false negative. True negatives are excluded from the
// denominator so that never responding scores 0%, not the share of
// trials that happened to have no match.
func Score(seq model.Sequence, responses []model.Response, n int) (model.SessionResult, error) {
	if n < model.MinLevel {
		return model.SessionResult{}, fmt.Errorf("level must be >= %d, got %d", model.MinLevel, n)
	}
	if n >= len(seq) {
		return model.SessionResult{}, fmt.Errorf("level %d leaves no scorable trials in a %d-trial sequence", n, len(seq))
	}
	if len(seq) != len(responses) {
		return model.SessionResult{}, fmt.Errorf("sequence has %d trials but %d responses", len(seq), len(responses))
	}

	var position, audio model.ChannelTally
	for i := n; i < len(seq); i++ {
		tally(&position, seq[i].PositionMatch, responses[i].Position)
		tally(&audio, seq[i].AudioMatch, responses[i].Audio)
	}

	result := model.SessionResult{
		Position:    position,
		Audio:       audio,
		PositionPct: channelPct(position),
		AudioPct:    channelPct(audio),
	}
	overallDen := position.Total() + audio.Total()
	result.OverallPct = pct(position.TP+audio.TP, overallDen)
	return result, nil
}

func tally(t *model.ChannelTally, isMatch bool, mark model.Mark) {
	respondedYes := mark == model.MarkYes
	switch {
	case isMatch && respondedYes:
		t.TP++
	case !isMatch && respondedYes:
		t.FP++
	case isMatch && !respondedYes:
		t.FN++
	}
}

func channelPct(t model.ChannelTally) int {
	return pct(t.TP, t.Total())
}

func pct(num, den int) int {
	if den <= 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}
