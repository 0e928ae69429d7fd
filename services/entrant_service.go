package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/pools"
	"github.com/openbracket/openbracket/repositories"
)

type SeedUpdate struct {
	EntrantID int `json:"entrant_id"`
	SeedHint  int `json:"seed_hint"`
}

type EntrantService interface {
	// AddEntrant регистрирует участника; новый участник получает посев
	// count+1, то есть встаёт в конец.
	AddEntrant(ctx context.Context, eventID, userID int, gamertag string) (*models.Entrant, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Entrant, error)
	// UpdateSeeding перезаписывает посев пачкой. Непрерывность и
	// уникальность значений не проверяются: вызывающая сторона (drag &
	// drop пересортировка) присылает согласованную полную перестановку.
	UpdateSeeding(ctx context.Context, eventID int, updates []SeedUpdate) error
	ClearSeeding(ctx context.Context, eventID int) error
	RemoveEntrant(ctx context.Context, entrantID int) error
}

type entrantService struct {
	txRunner    repositories.TxRunner
	entrantRepo repositories.EntrantRepository
	hub         *pools.Hub
	logger      *slog.Logger
}

func NewEntrantService(
	txRunner repositories.TxRunner,
	entrantRepo repositories.EntrantRepository,
	hub *pools.Hub,
	logger *slog.Logger,
) EntrantService {
	return &entrantService{
		txRunner:    txRunner,
		entrantRepo: entrantRepo,
		hub:         hub,
		logger:      logger,
	}
}

func (s *entrantService) AddEntrant(ctx context.Context, eventID, userID int, gamertag string) (*models.Entrant, error) {
	count, err := s.entrantRepo.CountByEvent(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count entrants",
			slog.Int("event_id", eventID), slog.Any("error", err))
		return nil, ErrEntrantCreateFailed
	}

	initialSeed := count + 1
	entrant := &models.Entrant{
		EventID:  eventID,
		UserID:   userID,
		Gamertag: gamertag,
		SeedHint: &initialSeed,
	}
	if err := s.entrantRepo.Create(ctx, entrant); err != nil {
		// Причина остаётся в логах; наружу уходит общая ошибка.
		s.logger.ErrorContext(ctx, "failed to add entrant",
			slog.Int("event_id", eventID), slog.Int("user_id", userID), slog.Any("error", err))
		return nil, ErrEntrantCreateFailed
	}

	s.broadcastSeeding(eventID)
	return entrant, nil
}

func (s *entrantService) ListByEvent(ctx context.Context, eventID int) ([]models.Entrant, error) {
	return s.entrantRepo.ListByEvent(ctx, eventID)
}

func (s *entrantService) UpdateSeeding(ctx context.Context, eventID int, updates []SeedUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, u := range updates {
			seedHint := u.SeedHint
			if err := s.entrantRepo.UpdateSeedHint(ctx, exec, u.EntrantID, &seedHint); err != nil {
				if errors.Is(err, repositories.ErrEntrantNotFound) {
					return ErrEntrantNotFound
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcastSeeding(eventID)
	return nil
}

func (s *entrantService) ClearSeeding(ctx context.Context, eventID int) error {
	if err := s.entrantRepo.ClearSeedingByEvent(ctx, eventID); err != nil {
		return err
	}
	s.broadcastSeeding(eventID)
	return nil
}

func (s *entrantService) RemoveEntrant(ctx context.Context, entrantID int) error {
	err := s.entrantRepo.Delete(ctx, entrantID)
	if err != nil {
		if errors.Is(err, repositories.ErrEntrantNotFound) {
			return ErrEntrantNotFound
		}
		return err
	}
	return nil
}

func (s *entrantService) broadcastSeeding(eventID int) {
	if s.hub == nil || eventID == 0 {
		return
	}
	s.hub.BroadcastToRoom(pools.EventRoom(eventID), pools.Message{Type: pools.MessageSeedingUpdated})
}
