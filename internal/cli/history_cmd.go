package cli

import (
	"errors"
	"fmt"

	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/service"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect previously generated profiles",
	}
	cmd.AddCommand(newHistoryListCmd(a))
	return cmd
}

func newHistoryListCmd(a *App) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded profiles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.Service.ListHistory(cmd.Context(), limit)
			if errors.Is(err, service.ErrHistoryDisabled) {
				return fmt.Errorf("%w; set history.db_path or PERSONA_HISTORY_DB", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, recs)
			}
			fmt.Fprint(out, formatter.FormatHistory(recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of profiles to show (0 for all)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}
