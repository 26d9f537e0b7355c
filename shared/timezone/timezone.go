package timezone

import (
	"errors"
	"strings"
	"time"

	"tourbook/config"
	"tourbook/shared/constant"

	"github.com/jinzhu/now"
	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location

	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Colombo', 'UTC'")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDate accepts a calendar date (YYYY-MM-DD) or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := Parse(constant.DateOnlyLayout, value); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return ToAppTime(t), nil
	}

	return time.Time{}, ErrInvalidDate
}

// StartOfDay truncates t to midnight in the application timezone.
func StartOfDay(t time.Time) time.Time {
	return now.With(ToAppTime(t)).BeginningOfDay()
}

// Today is midnight of the current day in the application timezone.
func Today() time.Time {
	return StartOfDay(Now())
}

// IsPastDate reports whether t falls on a day before today. A date equal to today is not past.
func IsPastDate(t time.Time) bool {
	return StartOfDay(t).Before(Today())
}
