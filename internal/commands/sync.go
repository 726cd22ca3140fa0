package commands

import (
	"github.com/spf13/cobra"
	"github.com/stahnma/gh-pinstars/internal/format"
)

func (a *App) runSync(cmd *cobra.Command) error {
	if err := a.LoadConfig(); err != nil {
		return err
	}
	closer := a.SetupLogging(cmd.ErrOrStderr())
	defer closer.Close()

	a.Logger.Debug("starting sync", "user", a.Config.GitHubUser, "dry_run", a.Config.DryRun)
	sum, err := a.Sync(cmd.Context())
	if err != nil {
		a.Logger.Error("sync failed", "error", err, "published", sum.Published, "pages", sum.Pages)
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return format.WriteJSON(cmd.OutOrStdout(), sum)
	}
	return format.WriteSummary(cmd.OutOrStdout(), sum)
}
