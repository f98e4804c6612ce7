package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

var ErrInvalidPatch = errors.New("Invalid request body")

type Service struct {
	repo   Repository
	logger *log.Logger
}

func NewService(repo Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, logger: logger.With("component", "settings")}
}

// Get falls back to the defaults when nothing is stored yet.
func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrSettingsNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return *stored, nil
}

// Update merges a partial JSON document into the current settings.
func (s *Service) Update(ctx context.Context, userID string, patch json.RawMessage) (Settings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	if err := json.Unmarshal(patch, &current); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := current.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.repo.Save(ctx, userID, current); err != nil {
		return Settings{}, err
	}
	return current, nil
}

func (s *Service) Reset(ctx context.Context, userID string) (Settings, error) {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return Settings{}, err
	}
	s.logger.Info("settings reset", "user", userID)
	return Defaults(), nil
}
