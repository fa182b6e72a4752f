package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/config"
	"github.com/example/ledger/internal/db"
	"github.com/example/ledger/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var dbPath, branchPrefix, output string
	var seed, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ledger in the current directory",
		Long: `Write .ledger/config.json in the current directory and create the database
with the current schema.

Examples:
  ledger init
  ledger init --db ./ledger.db --branch-prefix ml --seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = wd
			}

			if _, err := os.Stat(config.Path(dir)); err == nil && !force {
				return errors.New("ledger already initialized here (use --force to overwrite the config)")
			}

			cfg := config.Default()
			cfg.DBPath = dbPath
			cfg.BranchPrefix = branchPrefix
			if output != "" {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", config.Path(dir))

			// Services read the config just written.
			database := wire.DB()
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Development fixtures loaded")
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), `  ledger commission create "My first commission"`)
			fmt.Fprintln(cmd.OutOrStdout(), "  ledger commission list")

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default ~/.ledger/ledger.db)")
	cmd.Flags().StringVar(&branchPrefix, "branch-prefix", "", "Prefix of generated shipment branch names")
	cmd.Flags().StringVar(&output, "default-output", "", "Default output format (text, json, yaml)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load development fixtures")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	return cmd
}
