// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/grandinquisitor/swipeback/internal/model"
)

const sparkChars = " .:-=+*#%@"

const terminalWidthBackup = 80

// LifetimeSummary aggregates the persisted session history.
type LifetimeSummary struct {
	Sessions    int
	Trials      int
	AvgOverall  float64
	BestOverall int
	BestLevel   int
	LastOverall int
	LastLevel   int
}

// Summarize computes lifetime aggregates from sessions ordered oldest first.
func Summarize(sessions []model.SessionRecord) LifetimeSummary {
	var sum LifetimeSummary
	if len(sessions) == 0 {
		return sum
	}
	totalOverall := 0
	for _, s := range sessions {
		sum.Sessions++
		sum.Trials += s.Trials
		totalOverall += s.OverallPct
		if s.OverallPct > sum.BestOverall {
			sum.BestOverall = s.OverallPct
		}
		if s.Level > sum.BestLevel {
			sum.BestLevel = s.Level
		}
	}
	sum.AvgOverall = float64(totalOverall) / float64(sum.Sessions)
	last := sessions[len(sessions)-1]
	sum.LastOverall = last.OverallPct
	sum.LastLevel = last.Level
	return sum
}

// OverallSeries extracts overall percentages as a float series.
func OverallSeries(sessions []model.SessionRecord) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = float64(s.OverallPct)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample downsamples a series to at most width points by bucket averaging.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// TerminalWidth returns the current terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
