package services

import (
	"time"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateDateRange(start, end time.Time, rangeErr error) error {
	if start.IsZero() || end.IsZero() {
		return rangeErr
	}
	if !start.Before(end) {
		return rangeErr
	}
	return nil
}

// --- Хелперы для заполнения публичных URL загруженных файлов ---

func populateTournamentBannerURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament != nil && tournament.BannerKey != nil && *tournament.BannerKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*tournament.BannerKey)
		if url != "" {
			tournament.BannerURL = &url
		}
	}
}

func populateEventCoverURL(event *models.Event, uploader storage.FileUploader) {
	if event != nil && event.CoverKey != nil && *event.CoverKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*event.CoverKey)
		if url != "" {
			event.CoverURL = &url
		}
	}
}
