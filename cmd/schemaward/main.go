// schemaward applies versioned schema migrations to a postgres database and
// validates the live schema against a checked-in reference dump.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

type cmdGlobal struct {
	flagConfig string

	// exitCode overrides the process exit status on a clean run. The
	// validate subcommand uses it to propagate the diff tool's status.
	exitCode int
}

func main() {
	globalCmd := cmdGlobal{}

	app := &cobra.Command{
		Use:               "schemaward",
		Short:             "Manage and validate the database schema",
		Long:              "schemaward applies versioned schema migrations and checks the live schema against the reference dump.",
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	app.PersistentFlags().StringVarP(&globalCmd.flagConfig, "config", "c", "schemaward.yaml", "Path to the connection config file")

	validateCmd := cmdValidate{global: &globalCmd}
	app.AddCommand(validateCmd.command())

	upgradeCmd := cmdMigrate{global: &globalCmd, downgrade: false}
	app.AddCommand(upgradeCmd.command())

	downgradeCmd := cmdMigrate{global: &globalCmd, downgrade: true}
	app.AddCommand(downgradeCmd.command())

	statusCmd := cmdStatus{global: &globalCmd}
	app.AddCommand(statusCmd.command())

	err := app.Execute()
	if err != nil {
		os.Exit(2)
	}

	os.Exit(globalCmd.exitCode)
}
