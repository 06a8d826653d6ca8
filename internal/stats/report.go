// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/grandinquisitor/swipeback/internal/model"
	"github.com/grandinquisitor/swipeback/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
	Levels   []model.LevelAggregate
	Summary  LifetimeSummary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	levels, err := st.LevelAggregates(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		Levels:   levels,
		Summary:  Summarize(sessions),
	}, nil
}
