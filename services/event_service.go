package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/repositories"
	"github.com/openbracket/openbracket/storage"
)

type EventInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	GameName    string    `json:"game_name"`
	Platforms   []string  `json:"platforms"`
	EntrantCap  int       `json:"entrant_cap"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type EventService interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	Create(ctx context.Context, tournamentID int, input EventInput) (*models.Event, error)
	Update(ctx context.Context, id int, input EventInput) (*models.Event, error)
	Delete(ctx context.Context, id int) error
	UploadCover(ctx context.Context, id int, contentType string, data io.Reader) (*models.Event, error)
}

type eventService struct {
	eventRepo      repositories.EventRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func validateEventInput(input EventInput) error {
	if input.Name == "" {
		return ErrEventNameRequired
	}
	if input.GameName == "" {
		return ErrEventGameRequired
	}
	if input.EntrantCap < 2 {
		return ErrEventCapTooSmall
	}
	return validateDateRange(input.StartDate, input.EndDate, ErrEventInvalidDateRange)
}

func (s *eventService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Event, error) {
	events, err := s.eventRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for i := range events {
		populateEventCoverURL(&events[i], s.uploader)
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	populateEventCoverURL(event, s.uploader)
	return event, nil
}

func (s *eventService) Create(ctx context.Context, tournamentID int, input EventInput) (*models.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if input.Platforms == nil {
		input.Platforms = []string{}
	}
	event := &models.Event{
		TournamentID: tournamentID,
		Name:         input.Name,
		Description:  input.Description,
		GameName:     input.GameName,
		Platforms:    input.Platforms,
		EntrantCap:   input.EntrantCap,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id int, input EventInput) (*models.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	event.Name = input.Name
	event.Description = input.Description
	event.GameName = input.GameName
	event.Platforms = input.Platforms
	if event.Platforms == nil {
		event.Platforms = []string{}
	}
	event.EntrantCap = input.EntrantCap
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	populateEventCoverURL(event, s.uploader)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id int) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if event.CoverKey != nil && *event.CoverKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *event.CoverKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete event cover",
				slog.Int("event_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *eventService) UploadCover(ctx context.Context, id int, contentType string, data io.Reader) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := storage.NewObjectKey("events/covers", ext)
	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}

	oldKey := event.CoverKey
	if err := s.eventRepo.UpdateCoverKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous cover",
				slog.Int("event_id", id), slog.Any("error", err))
		}
	}

	event.CoverKey = &result.Key
	populateEventCoverURL(event, s.uploader)
	return event, nil
}
