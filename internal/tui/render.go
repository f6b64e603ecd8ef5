package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright))
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentMain)).
			MarginTop(1)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	badgeStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1)
)

// RenderDashboard draws a dashboard snapshot. now anchors relative times.
func RenderDashboard(v dashboard.View, now time.Time) string {
	var b strings.Builder

	name := v.UserName
	if name == "" {
		name = "there"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("👋 Hello, %s", name)))
	b.WriteString("\n")
	b.WriteString(renderQuickStats(v))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("⏰ Today's reminders"))
	b.WriteString("\n")
	switch reminders := v.TopReminders(); {
	case v.RemindersDegraded:
		b.WriteString(warningStyle.Render("Reminders are unavailable right now"))
		b.WriteString("\n")
	case len(reminders) == 0:
		b.WriteString(mutedStyle.Render("No reminders for today"))
		b.WriteString("\n")
	default:
		for _, r := range reminders {
			b.WriteString(renderReminder(r))
			b.WriteString("\n")
		}
	}

	b.WriteString(sectionStyle.Render("💊 Medications"))
	b.WriteString("\n")
	meds, hidden := v.VisibleMedications()
	if len(meds) == 0 {
		b.WriteString(mutedStyle.Render("No medications yet"))
		b.WriteString("\n")
	}
	for _, med := range meds {
		b.WriteString(renderMedication(med))
		b.WriteString("\n")
	}
	if hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("+%d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("🙂 Recent mood"))
	b.WriteString("\n")
	if v.RecentMood == nil {
		b.WriteString(mutedStyle.Render("No mood logged yet"))
	} else {
		b.WriteString(renderMoodLine(*v.RecentMood, now))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("❤️ Recent vitals"))
	b.WriteString("\n")
	b.WriteString(renderVitalLines(v.VisibleVitals(), now))

	if v.Insights != nil {
		b.WriteString(sectionStyle.Render("💡 Insights"))
		b.WriteString("\n")
		b.WriteString(renderInsightLines(*v.Insights))
	}

	return b.String()
}

// RenderMedications lists medications with their reminder times
func RenderMedications(meds []models.Medication) string {
	if len(meds) == 0 {
		return mutedStyle.Render("No medications yet") + "\n"
	}
	var b strings.Builder
	for _, med := range meds {
		b.WriteString(fmt.Sprintf("#%d ", med.ID))
		b.WriteString(renderMedication(med))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderVitals lists vitals entries, newest first
func RenderVitals(vitals []models.Vital, now time.Time) string {
	return renderVitalLines(vitals, now)
}

// RenderMood describes a logged mood and its sentiment
func RenderMood(m models.MoodLog, now time.Time) string {
	return renderMoodLine(m, now) + "\n"
}

// RenderInsights draws the insight block
func RenderInsights(in models.Insights) string {
	out := renderInsightLines(in)
	if out == "" {
		return mutedStyle.Render("No insights yet. Keep logging!") + "\n"
	}
	return out
}

// RenderSession describes the logged in user
func RenderSession(s session.Session) string {
	line := fmt.Sprintf("%s (user #%d)", s.Name, s.UserID)
	if s.Age > 0 {
		line += fmt.Sprintf(", age %d", s.Age)
	}
	if s.CaregiverEmail != "" {
		line += fmt.Sprintf(", caregiver %s", s.CaregiverEmail)
	}
	return line + "\n"
}

// renderQuickStats is the one-line summary under the greeting
func renderQuickStats(v dashboard.View) string {
	mood := "–"
	if v.RecentMood != nil {
		mood = parser.SentimentIcon(v.RecentMood.SentimentLabel)
	}
	return mutedStyle.Render(fmt.Sprintf("💊 %s · mood %s · ❤️ %s · 🔥 %d day streak",
		humanize.Comma(int64(len(v.Medications)))+" medications",
		mood,
		humanize.Comma(int64(len(v.RecentVitals)))+" vitals",
		v.StreakCount()))
}

func renderReminder(r models.Reminder) string {
	line := fmt.Sprintf("%s  %s", badgeStyle.Render(r.Time), r.Medication)
	if r.Text != "" {
		line += " · " + r.Text
	}
	if r.MoodBased {
		line += " " + mutedStyle.Render("💝 adjusted for your mood")
	}
	return line
}

func renderMedication(med models.Medication) string {
	line := med.Name
	if med.Dosage != "" {
		line += " " + mutedStyle.Render(med.Dosage)
	}
	if len(med.ReminderTimes) > 0 {
		line += " @ " + strings.Join(med.ReminderTimes, ", ")
	}
	return line
}

func renderMoodLine(m models.MoodLog, now time.Time) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(sentimentColor(m.SentimentLabel)))
	line := fmt.Sprintf("%s %s", parser.SentimentIcon(m.SentimentLabel), style.Render(m.SentimentLabel))
	line += fmt.Sprintf(" (%d%% confidence)", m.Confidence())
	if m.MoodText != "" {
		line += fmt.Sprintf(" %q", m.MoodText)
	}
	if !m.CreatedAt.IsZero() {
		line += " " + mutedStyle.Render(humanize.RelTime(m.CreatedAt.Time, now, "ago", "from now"))
	}
	return line
}

func renderVitalLines(vitals []models.Vital, now time.Time) string {
	if len(vitals) == 0 {
		return mutedStyle.Render("No vitals logged yet") + "\n"
	}
	var b strings.Builder
	for _, v := range vitals {
		var parts []string
		if v.BloodPressureSystolic != nil || v.BloodPressureDiastolic != nil {
			parts = append(parts, fmt.Sprintf("BP %s/%s", intOrDash(v.BloodPressureSystolic), intOrDash(v.BloodPressureDiastolic)))
		}
		if v.BloodSugar != nil {
			parts = append(parts, fmt.Sprintf("sugar %s mg/dL", humanize.Ftoa(*v.BloodSugar)))
		}
		if v.SleepHours != nil {
			parts = append(parts, fmt.Sprintf("sleep %sh", humanize.Ftoa(*v.SleepHours)))
		}
		line := strings.Join(parts, " · ")
		if !v.CreatedAt.IsZero() {
			line += " " + mutedStyle.Render(humanize.RelTime(v.CreatedAt.Time, now, "ago", "from now"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderInsightLines(in models.Insights) string {
	var b strings.Builder
	if in.MoodInsight != "" {
		b.WriteString("🧠 " + in.MoodInsight + "\n")
	}
	if in.MedicationInsight != "" {
		b.WriteString("💊 " + in.MedicationInsight + "\n")
	}
	if in.StreakCount > 0 {
		kind := in.StreakType
		if kind == "" {
			kind = "logging"
		}
		b.WriteString(fmt.Sprintf("🔥 %d day %s streak\n", in.StreakCount, kind))
	}
	return b.String()
}

func sentimentColor(label string) string {
	switch label {
	case models.SentimentPositive:
		return ColorSuccess
	case models.SentimentNegative:
		return ColorError
	default:
		return ColorWarning
	}
}

func intOrDash(v *int) string {
	if v == nil {
		return "–"
	}
	return fmt.Sprintf("%d", *v)
}
