package analytics

import (
	"context"

	"github.com/strata-ai/strata/internal/store"
	"github.com/strata-ai/strata/internal/store/model"
)

type Service interface {
	GetDecisionOverview(ctx context.Context, days int) ([]model.DailyStats, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetDecisionOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = 7 // default to last week
	}
	return s.repo.Decisions().GetDailyStats(ctx, days)
}
