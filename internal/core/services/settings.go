package services

import (
	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
	"github.com/taskdeck/taskdeck/internal/core/ports/driving"
)

// Config keys for settings.
const (
	keyDarkMode      = "ui.dark_mode"
	keyNotifications = "reminders.notifications_enabled"
	keyReminderFreq  = "reminders.default_frequency"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService reads and writes application settings through the
// config store, falling back to defaults for unset or invalid values.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// Get returns the current settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if _, ok := s.config.Get(keyDarkMode); ok {
		settings.DarkMode = s.config.GetBool(keyDarkMode)
	}
	if _, ok := s.config.Get(keyNotifications); ok {
		settings.NotificationsEnabled = s.config.GetBool(keyNotifications)
	}
	if freq := domain.ReminderFrequency(s.config.GetString(keyReminderFreq)); freq.IsValid() {
		settings.DefaultReminderFrequency = freq
	}

	return &settings, nil
}

// Save persists the settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.DefaultReminderFrequency.IsValid() {
		return domain.ErrInvalidInput
	}

	if err := s.config.Set(keyDarkMode, settings.DarkMode); err != nil {
		return err
	}
	if err := s.config.Set(keyNotifications, settings.NotificationsEnabled); err != nil {
		return err
	}
	return s.config.Set(keyReminderFreq, string(settings.DefaultReminderFrequency))
}
