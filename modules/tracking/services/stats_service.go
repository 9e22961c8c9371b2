package services

import (
	"context"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/query"
)

// StatsService exposes the dashboard aggregates.
type StatsService struct {
	stats query.StatsQuery
}

func NewStatsService(stats query.StatsQuery) *StatsService {
	return &StatsService{stats: stats}
}

func (s *StatsService) General(ctx context.Context) (query.GeneralStats, error) {
	return s.stats.General(ctx)
}

func (s *StatsService) Evolution(ctx context.Context, f query.EvolutionFilters) ([]query.EvolutionPoint, error) {
	return s.stats.Evolution(ctx, f)
}
