package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/schemaward/schemaward/internal/config"
	"github.com/schemaward/schemaward/internal/db/update"
	"github.com/schemaward/schemaward/internal/migrations"
)

type cmdMigrate struct {
	global    *cmdGlobal
	downgrade bool
}

func (c *cmdMigrate) command() *cobra.Command {
	cmd := &cobra.Command{}
	if c.downgrade {
		cmd.Use = "downgrade [<set>]"
		cmd.Short = "Revert the most recently applied migration"
	} else {
		cmd.Use = "upgrade [<set>]"
		cmd.Short = "Apply all pending migrations"
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.RunE = c.run

	return cmd
}

func (c *cmdMigrate) run(cmd *cobra.Command, args []string) error {
	setName := ""
	if len(args) > 0 {
		setName = args[0]
	}

	set, err := migrations.Set(setName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.global.flagConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := cfg.Connect(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = db.Close() }()

	direction := update.Upgrade
	if c.downgrade {
		direction = update.Downgrade
	}

	n, err := update.Migrate(ctx, db, direction, set)
	if err != nil {
		return err
	}

	if n == 0 {
		cmd.Println("Nothing to do")
	} else {
		cmd.Printf("Ran %d migration(s)\n", n)
	}

	return nil
}
