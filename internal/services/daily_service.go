package services

import (
	"context"

	"github.com/cardy/cardy/internal/draw"
	"github.com/cardy/cardy/internal/models"
)

// DailyCardService exposes the daily card draw.
type DailyCardService interface {
	TodayCards(ctx context.Context) ([]models.DailyCard, error)
	CardsForDate(ctx context.Context, date string) ([]models.DailyCard, error)
	RefreshCards(ctx context.Context, date string) ([]models.DailyCard, error)
}

type dailyCardService struct {
	engine *draw.Engine
}

// NewDailyCardService creates a new DailyCardService
func NewDailyCardService(engine *draw.Engine) DailyCardService {
	return &dailyCardService{engine: engine}
}

func (s *dailyCardService) TodayCards(ctx context.Context) ([]models.DailyCard, error) {
	return s.engine.Today(ctx)
}

func (s *dailyCardService) CardsForDate(ctx context.Context, date string) ([]models.DailyCard, error) {
	return s.engine.DrawForDate(ctx, date)
}

func (s *dailyCardService) RefreshCards(ctx context.Context, date string) ([]models.DailyCard, error) {
	return s.engine.Refresh(ctx, date)
}
