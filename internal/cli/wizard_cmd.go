package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/spf13/cobra"
)

const (
	wizardModeRandom   = "random"
	wizardModeExplicit = "explicit"
)

// personaHuhTheme returns a huh theme matching the formatter palette.
func personaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorAccent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorOK)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorAccent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardAnswers collects the form's values before they become generate
// options.
type wizardAnswers struct {
	mode      string
	coherence int
	scores    map[domain.Domain]*int
	length    string
	dryRun    bool
}

func newWizardAnswers() *wizardAnswers {
	w := &wizardAnswers{
		mode:      wizardModeRandom,
		coherence: int(domain.CoherenceCoherent),
		scores:    make(map[domain.Domain]*int, len(domain.Domains)),
	}
	for _, d := range domain.DisplayOrder {
		s := domain.NeutralScore
		w.scores[d] = &s
	}
	return w
}

// options converts the answers. Explicit mode keeps only non-neutral scores,
// so an all-neutral answer is rejected the same way the flags are.
func (w *wizardAnswers) options() (generateOptions, error) {
	opts := generateOptions{count: 1, dryRun: w.dryRun, length: parsePositiveInt(w.length, 0)}
	switch w.mode {
	case wizardModeRandom:
		opts.random = w.coherence
	case wizardModeExplicit:
		opts.scores = make(map[domain.Domain]int)
		for d, s := range w.scores {
			if *s != domain.NeutralScore {
				opts.scores[d] = *s
			}
		}
	default:
		return opts, fmt.Errorf("unknown mode %q", w.mode)
	}
	return opts, nil
}

func (w *wizardAnswers) form() *huh.Form {
	coherenceOpts := []huh.Option[int]{
		huh.NewOption("1 - coherent (facets within ±1)", 1),
		huh.NewOption("2 - mixed (moderate spread ±2)", 2),
		huh.NewOption("3 - chaotic (large spread ≥3)", 3),
	}

	scoreFields := make([]huh.Field, 0, len(domain.DisplayOrder))
	for _, d := range domain.DisplayOrder {
		opts := make([]huh.Option[int], 0, domain.MaxScore)
		for s := domain.MinScore; s <= domain.MaxScore; s++ {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%d %s", s, formatter.ScoreEmoji(d, s)), s))
		}
		scoreFields = append(scoreFields, huh.NewSelect[int]().
			Title(formatter.DomainTitle(d)).
			Options(opts...).
			Value(w.scores[d]))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How should scores be chosen?").
				Options(
					huh.NewOption("Random personality", wizardModeRandom),
					huh.NewOption("Pick domain scores", wizardModeExplicit),
				).
				Value(&w.mode),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Coherence").
				Options(coherenceOpts...).
				Value(&w.coherence),
		).WithHideFunc(func() bool { return w.mode != wizardModeRandom }),
		huh.NewGroup(scoreFields...).
			WithHideFunc(func() bool { return w.mode != wizardModeExplicit }),
		huh.NewGroup(
			huh.NewInput().
				Title("Target length in characters (blank for none)").
				Placeholder("300").
				Value(&w.length).
				Validate(validatePositiveInt),
			huh.NewConfirm().
				Title("Only show the synthesis prompt?").
				Value(&w.dryRun),
		),
	).WithTheme(personaHuhTheme()).WithShowHelp(false)
}

func newWizardCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Build a profile interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return errors.New("wizard needs an interactive terminal; use 'persona generate' instead")
			}
			answers := newWizardAnswers()
			if err := answers.form().RunWithContext(cmd.Context()); err != nil {
				return err
			}
			opts, err := answers.options()
			if err != nil {
				return err
			}
			return runGenerate(cmd, a, opts)
		},
	}
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// parsePositiveInt parses s as a positive integer, returning fallback if s is
// empty or invalid. The form has already validated s.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
