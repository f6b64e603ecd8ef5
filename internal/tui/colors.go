package tui

// Color constants for the healthmate theme
const (
	// Base Colors
	ColorCardBackground = "#10261F" // Deep green
	ColorBorder         = "#35504A" // Grey-green

	// Text Colors
	ColorPrimaryText   = "#E6F2EE" // Labels, user input, titles
	ColorSecondaryText = "#A9C2BA" // Secondary text
	ColorDisabledText  = "#687C76" // Muted text
	ColorPlaceholder   = "#A9C2BA"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#0D9488" // Headers, active borders
	ColorAccentBright = "#5EEAD4" // Highlights, current step

	// State Colors
	ColorError   = "#EF4444" // Validation errors, negative sentiment
	ColorSuccess = "#22C55E" // Success, positive sentiment
	ColorWarning = "#F59E0B" // Degraded data, neutral sentiment
)
