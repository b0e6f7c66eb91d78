package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemaward/schemaward/internal/config"
	"github.com/schemaward/schemaward/internal/validate"
)

type cmdValidate struct {
	global *cmdGlobal
}

func (c *cmdValidate) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "validate"
	cmd.Short = "Check the live schema against the reference dump"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.run

	return cmd
}

func (c *cmdValidate) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.global.flagConfig)
	if err != nil {
		return err
	}

	outcome, err := validate.Run(context.Background(), cfg.Database, cfg.Reference)
	if err != nil {
		if outcome == nil {
			// No comparison happened: either the export failed or
			// the diff tool couldn't be run at all.
			return err
		}

		// The diff tool itself failed; exit with its status.
		fmt.Fprintln(os.Stderr, "Error:", err)
		c.global.exitCode = outcome.Code
		return nil
	}

	if outcome.Diff != "" {
		fmt.Print(outcome.Diff)
	}

	c.global.exitCode = outcome.Code
	return nil
}
