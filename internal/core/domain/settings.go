package domain

// ReminderFrequency controls how often reminders fire for a task deadline.
type ReminderFrequency string

const (
	// ReminderNone disables popup reminders (email only).
	ReminderNone ReminderFrequency = "none"
	// ReminderHourly fires a reminder every hour.
	ReminderHourly ReminderFrequency = "hourly"
	// ReminderEvery3Hours fires a reminder every three hours.
	ReminderEvery3Hours ReminderFrequency = "every-3-hours"
	// ReminderDaily fires one reminder per day.
	ReminderDaily ReminderFrequency = "daily"
)

// IsValid reports whether the frequency is one of the known values.
func (f ReminderFrequency) IsValid() bool {
	switch f {
	case ReminderNone, ReminderHourly, ReminderEvery3Hours, ReminderDaily:
		return true
	default:
		return false
	}
}

// AppSettings holds user-tunable application settings.
type AppSettings struct {
	DarkMode                 bool              `json:"dark_mode"`
	NotificationsEnabled     bool              `json:"notifications_enabled"`
	DefaultReminderFrequency ReminderFrequency `json:"default_reminder_frequency"`
}

// DefaultAppSettings returns the settings used before any are stored.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		DarkMode:                 false,
		NotificationsEnabled:     true,
		DefaultReminderFrequency: ReminderDaily,
	}
}
