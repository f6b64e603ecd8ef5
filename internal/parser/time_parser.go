package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reminderTimeRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseReminderTime parses a reminder time and normalizes it to HH:MM
// Supported formats:
// - HH:MM (e.g., "08:00", "20:30")
// - H:MM (e.g., "8:00")
func ParseReminderTime(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("reminder time is empty")
	}

	matches := reminderTimeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return "", fmt.Errorf("invalid time %q. Use HH:MM (24-hour)", input)
	}

	hour, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("invalid hour")
	}
	minute, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", fmt.Errorf("invalid minute")
	}

	if hour > 23 {
		return "", fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 {
		return "", fmt.Errorf("minute must be between 0 and 59")
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// AddReminderTime appends t unless it is already present. The input slice is
// never modified.
func AddReminderTime(times []string, t string) []string {
	out := make([]string, 0, len(times)+1)
	out = append(out, times...)
	for _, existing := range times {
		if existing == t {
			return out
		}
	}
	return append(out, t)
}

// RemoveReminderTime returns times without t
func RemoveReminderTime(times []string, t string) []string {
	out := make([]string, 0, len(times))
	for _, existing := range times {
		if existing != t {
			out = append(out, existing)
		}
	}
	return out
}

// DedupeReminderTimes drops repeated times, keeping the order of first
// occurrence
func DedupeReminderTimes(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = AddReminderTime(out, t)
	}
	return out
}
