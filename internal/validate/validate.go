// Package validate holds the field-level sanitization and range rules applied
// before any write. Functions either return the normalized value or a
// FieldError naming the offending field; they never touch storage.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"maintenatrack-backend/internal/model"
)

const (
	maxZoneLen     = 10
	maxAlarmLen    = 50
	maxTextLen     = 1000
	maxDurationMin = 1440
)

var (
	zoneStrip  = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	alarmStrip = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// FieldError reports a rule violation on a single named field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Zone normalizes a zone label: trim, drop everything outside
// [A-Za-z0-9_-], uppercase. The result must be 1-10 characters.
func Zone(field, raw string) (string, error) {
	zone := zoneStrip.ReplaceAllString(strings.TrimSpace(raw), "")
	zone = strings.ToUpper(zone)
	if zone == "" {
		return "", fieldErrorf(field, "zone is required and cannot be empty")
	}
	if len(zone) > maxZoneLen {
		return "", fieldErrorf(field, "zone must be %d characters or less", maxZoneLen)
	}
	return zone, nil
}

// AlarmCode normalizes an alarm code: trim, drop everything outside
// [A-Za-z0-9_.-], uppercase. The result must be 1-50 characters.
func AlarmCode(raw string) (string, error) {
	code := alarmStrip.ReplaceAllString(strings.TrimSpace(raw), "")
	code = strings.ToUpper(code)
	if code == "" {
		return "", fieldErrorf("alarm_code", "alarm code is required and cannot be empty")
	}
	if len(code) > maxAlarmLen {
		return "", fieldErrorf("alarm_code", "alarm code must be %d characters or less", maxAlarmLen)
	}
	return code, nil
}

// StepText trims step action/result text and enforces the length cap.
// An empty result is fine; callers decide what an empty action means.
func StepText(field, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if len(text) > maxTextLen {
		return "", fieldErrorf(field, "must be %d characters or less", maxTextLen)
	}
	return text, nil
}

// Duration checks a step duration in minutes. A nil duration is allowed.
func Duration(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if *minutes < 0 || *minutes > maxDurationMin {
		return fieldErrorf("duration_minutes", "must be between 0 and %d", maxDurationMin)
	}
	return nil
}

// Difficulty checks membership in the fixed difficulty set.
func Difficulty(raw string) (string, error) {
	diff := strings.TrimSpace(raw)
	switch diff {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		return diff, nil
	}
	return "", fieldErrorf("difficulty", "must be one of %s, %s, %s",
		model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard)
}
