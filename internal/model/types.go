// Package model defines shared data structures.
package model

import "time"

// GridCells is the number of cells in the 3x3 spatial grid.
const GridCells = 9

// Level bounds for the n-back lag.
const (
	MinLevel = 1
	MaxLevel = 9
)

// Trial count bounds for a session.
const (
	MinTrials = 10
	MaxTrials = 50
)

// Stimulus is a single trial cue pair with its planned match flags.
// Flags record the generation decision and are never recomputed from
// the values.
type Stimulus struct {
	Position      int
	Symbol        rune
	PositionMatch bool
	AudioMatch    bool
}

// Sequence is an ordered trial plan for one session.
type Sequence []Stimulus

// Mark is a tri-state player judgement for one channel.
type Mark int8

// Mark states. MarkUnset means the player issued no judgement.
const (
	MarkUnset Mark = iota
	MarkYes
	MarkNo
)

// Response holds the player's judgements for one trial.
type Response struct {
	Position Mark
	Audio    Mark
}

// ChannelTally accumulates scoring counters for one channel.
// True negatives are intentionally not counted.
type ChannelTally struct {
	TP int
	FP int
	FN int
}

// Total returns the scoring denominator for the channel.
func (t ChannelTally) Total() int {
	return t.TP + t.FP + t.FN
}

// SessionResult is the scored outcome of a completed session.
type SessionResult struct {
	PositionPct int
	AudioPct    int
	OverallPct  int
	Position    ChannelTally
	Audio       ChannelTally
}

// SessionRecord captures a completed session for persistence.
type SessionRecord struct {
	ID          int64
	StartedAt   time.Time
	EndedAt     time.Time
	Level       int
	Trials      int
	Alphabet    string
	PositionPct int
	AudioPct    int
	OverallPct  int
	PositionTP  int
	PositionFP  int
	PositionFN  int
	AudioTP     int
	AudioFP     int
	AudioFN     int
	DurationMs  int64
}

// LevelAggregate summarizes all sessions played at one level.
type LevelAggregate struct {
	Level       int
	Sessions    int
	Trials      int
	AvgOverall  float64
	BestOverall int
}

// Config defines play settings.
type Config struct {
	Level         int
	Trials        int
	Alphabet      string
	Sound         bool
	Player        string
	Adaptive      bool
	UpThreshold   int
	DownThreshold int
	ShowMs        int
	GapMs         int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level       int
	Since       *time.Time
	Last        int
	CurveWindow int
}
