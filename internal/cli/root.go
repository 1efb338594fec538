package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates the top-level "persona" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "persona",
		Short:         "BFI-2 personality profiles for chatbot system prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(app),
		newResolveCmd(app),
		newFacetsCmd(app),
		newRandomCmd(app),
		newCorpusCmd(app),
		newHistoryCmd(app),
		newWizardCmd(app),
		newServeCmd(app),
	)
	root.SetGlobalNormalizationFunc(dashedFlagNames)

	return root
}

// dashedFlagNames lets --dry_run stand in for --dry-run. Case is preserved so
// the domain flags stay distinct from their lowercase typos.
func dashedFlagNames(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
