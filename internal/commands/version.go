package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			sha := a.GitSHA
			if sha == "" {
				sha = "unknown"
			}
			fmt.Fprintf(w, "gh-pinstars %s\n", sha)
			if a.GitDirty != "" {
				fmt.Fprintf(w, "Git Dirty: true\n")
			}
			return nil
		},
	}
}
