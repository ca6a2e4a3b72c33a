// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#D9A000", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Accent for the active exercise row and selected video.
	AccentColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	// Form colors
	FormLabelColor        = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#8C8C8C"}
	FormFocusedLabelColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Toast notification colors
	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor   = StatusErrorColor
	ToastBorderInfoColor    = BorderFocusColor
	ToastBorderWarnColor    = StatusWarningColor

	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFFFFF"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	ActiveRowStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	RowStyle       = lipgloss.NewStyle().Foreground(TextPrimaryColor)

	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	FormLabelStyle        = lipgloss.NewStyle().Foreground(FormLabelColor).Width(20)
	FormFocusedLabelStyle = lipgloss.NewStyle().Foreground(FormFocusedLabelColor).Bold(true).Width(20)
	FormErrorStyle        = lipgloss.NewStyle().Foreground(StatusErrorColor).PaddingLeft(20)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	UserMessageStyle = lipgloss.NewStyle().Foreground(BorderFocusColor).Bold(true)
	ReplyStyle       = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	FailedReplyStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	PrimaryButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#1A5276"))

	PrimaryButtonFocusedStyle = PrimaryButtonStyle.
					Background(lipgloss.Color("#3498DB")).
					Underline(true).
					UnderlineSpaces(true)

	DisabledButtonStyle = PrimaryButtonStyle.
				Foreground(lipgloss.Color("#777777")).
				Background(lipgloss.Color("#2D2D2D"))
)
