package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/repositories"
)

// MatchService — тонкая read-only обёртка: матчи создаются внешними
// генераторами сеток, здесь их только читают.
type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByGroup(ctx context.Context, groupID int) ([]models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
}

func NewMatchService(matchRepo repositories.MatchRepository) MatchService {
	return &matchService{matchRepo: matchRepo}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) ListByGroup(ctx context.Context, groupID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for group %d: %w", groupID, err)
	}
	return matches, nil
}
