package stats

import (
	"testing"
	"time"

	"github.com/grandinquisitor/swipeback/internal/model"
)

func sessionAt(i, level, overall int) model.SessionRecord {
	end := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
	return model.SessionRecord{
		EndedAt:    end,
		Level:      level,
		Trials:     20,
		OverallPct: overall,
	}
}

func TestSummarize(t *testing.T) {
	sessions := []model.SessionRecord{
		sessionAt(0, 2, 60),
		sessionAt(1, 3, 90),
		sessionAt(2, 2, 75),
	}
	sum := Summarize(sessions)
	if sum.Sessions != 3 || sum.Trials != 60 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.AvgOverall != 75 {
		t.Fatalf("expected avg 75, got %.2f", sum.AvgOverall)
	}
	if sum.BestOverall != 90 || sum.BestLevel != 3 {
		t.Fatalf("unexpected bests: %+v", sum)
	}
	if sum.LastOverall != 75 || sum.LastLevel != 2 {
		t.Fatalf("unexpected last session: %+v", sum)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Sessions != 0 || sum.AvgOverall != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %.2f, want %.2f", i, out[i], want[i])
		}
	}
}

func TestMovingAverageSmallWindowCopies(t *testing.T) {
	values := []float64{3, 1, 2}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("expected copy for window 1, got %v", out)
		}
	}
}

func TestSparkline(t *testing.T) {
	out := Sparkline([]float64{0, 50, 100})
	if len(out) != 3 {
		t.Fatalf("expected 3 chars, got %q", out)
	}
	if out[0] != ' ' || out[2] != '@' {
		t.Fatalf("unexpected extremes: %q", out)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	out := Sparkline([]float64{5, 5, 5, 5})
	if len(out) != 4 {
		t.Fatalf("expected 4 chars, got %q", out)
	}
	for i := 1; i < len(out); i++ {
		if out[i] != out[0] {
			t.Fatalf("flat series must render uniformly: %q", out)
		}
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 1, 3, 3}
	out := Resample(values, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(out))
	}
	if out[0] != 1 || out[1] != 3 {
		t.Fatalf("unexpected buckets: %v", out)
	}

	passthrough := Resample(values, 10)
	if len(passthrough) != len(values) {
		t.Fatalf("short series must pass through, got %v", passthrough)
	}
}

func TestOverallSeries(t *testing.T) {
	sessions := []model.SessionRecord{sessionAt(0, 2, 40), sessionAt(1, 2, 80)}
	out := OverallSeries(sessions)
	if len(out) != 2 || out[0] != 40 || out[1] != 80 {
		t.Fatalf("unexpected series: %v", out)
	}
}
