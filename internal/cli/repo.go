package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/wire"
)

// RepoCmd returns the repo command
func RepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories shipments can be linked to",
	}

	cmd.AddCommand(repoCreateCmd())
	cmd.AddCommand(repoListCmd())
	cmd.AddCommand(repoShowCmd())
	cmd.AddCommand(repoDeleteCmd())

	return cmd
}

func repoCreateCmd() *cobra.Command {
	var url, defaultBranch string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a repository",
		Long: `Register a repository.

Examples:
  ledger repo create ledger --url git@github.com:org/ledger.git
  ledger repo create api --default-branch develop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RepoAdapter().Create(cmd.Context(), args[0], url, defaultBranch)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "Repository URL (e.g., git@github.com:org/repo.git)")
	cmd.Flags().StringVarP(&defaultBranch, "default-branch", "b", "main", "Default branch name")

	return cmd
}

func repoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RepoAdapter().List(cmd.Context())
		},
	}
}

func repoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [repo-id or name]",
		Short: "Show repository details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RepoAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func repoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [repo-id]",
		Short: "Delete a repository no shipment links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "repo"); err != nil {
				return err
			}
			return wire.RepoAdapter().Delete(cmd.Context(), args[0])
		},
	}
}
