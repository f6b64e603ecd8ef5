package parser

import (
	"regexp"
	"strings"
)

// ParsedMedication represents a medication parsed from natural language
type ParsedMedication struct {
	Name          string
	Dosage        string
	ReminderTimes []string
	Errors        []string
}

var (
	atTimeRegex = regexp.MustCompile(`@(\S+)`)
	dosageRegex = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:mg|mcg|µg|g|ml|iu|units?|tabs?|tablets?|caps?|capsules?|puffs?|drops?)\b(?:\s+(?:once|twice|three times|daily|nightly|weekly)(?:\s+daily)?)?`)
)

// ParseMedication extracts a medication from free text
// Syntax: "Metformin 500mg @08:00 @20:00"
func ParseMedication(input string) ParsedMedication {
	result := ParsedMedication{
		ReminderTimes: []string{},
		Errors:        []string{},
	}

	// Extract reminder times (@HH:MM)
	for _, match := range atTimeRegex.FindAllStringSubmatch(input, -1) {
		t, err := ParseReminderTime(match[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ReminderTimes = AddReminderTime(result.ReminderTimes, t)
	}
	input = atTimeRegex.ReplaceAllString(input, "")

	// Extract dosage (first quantity with a unit)
	if loc := dosageRegex.FindStringIndex(input); loc != nil {
		result.Dosage = strings.TrimSpace(input[loc[0]:loc[1]])
		input = input[:loc[0]] + " " + input[loc[1]:]
	}

	// Whatever is left is the name
	result.Name = strings.Join(strings.Fields(input), " ")

	return result
}
