package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/craigtrim/persona-api/internal/domain"
)

// Gruvbox palette.
var (
	ColorOK     = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorAqua   = lipgloss.Color("#689d6a")
	colorPurple = lipgloss.Color("#d3869b")
	ColorAccent = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleOK     = lipgloss.NewStyle().Foreground(ColorOK)
	StyleFail   = lipgloss.NewStyle().Foreground(colorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	styleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	styleBusy   = lipgloss.NewStyle().Foreground(colorPurple)
)

// domainColors gives every domain its own header color.
var domainColors = map[domain.Domain]lipgloss.Color{
	domain.Extraversion:         ColorAccent,
	domain.Agreeableness:        ColorOK,
	domain.Conscientiousness:    colorBlue,
	domain.NegativeEmotionality: colorRed,
	domain.OpenMindedness:       colorPurple,
}

// scoreColors runs cold to warm across the 1-5 scale.
var scoreColors = [...]lipgloss.Color{colorBlue, colorAqua, ColorFg, colorYellow, ColorAccent}

// coherenceColors runs green to red across coherence classes.
var coherenceColors = map[domain.Coherence]lipgloss.Color{
	domain.CoherenceCoherent:      ColorOK,
	domain.CoherenceUncertain:     colorYellow,
	domain.CoherenceContradictory: colorRed,
}

// DomainStyle is the bold header style for d.
func DomainStyle(d domain.Domain) lipgloss.Style {
	c, ok := domainColors[d]
	if !ok {
		c = ColorAccent
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// ScoreStyle colors a 1-5 score. Out-of-range scores are dim.
func ScoreStyle(score int) lipgloss.Style {
	if score < 1 || score > len(scoreColors) {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(scoreColors[score-1])
}

// CoherenceIndicator returns a colored label such as "● 2 uncertain".
func CoherenceIndicator(c domain.Coherence) string {
	color, ok := coherenceColors[c]
	if !ok {
		color = ColorDim
	}
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("● %d %s", int(c), c))
}

// Header renders an upper-cased title over a rule of the same width.
func Header(text string) string {
	return header(StyleHeader, text)
}

// DomainHeader is Header in d's color.
func DomainHeader(d domain.Domain) string {
	return header(DomainStyle(d), DomainTitle(d))
}

func header(style lipgloss.Style, text string) string {
	upper := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(upper))
	return style.Render(upper) + "\n" + StyleDim.Render(rule)
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return styleBold.Render(text)
}
