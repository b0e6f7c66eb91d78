package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/schemaward/schemaward/internal/config"
	"github.com/schemaward/schemaward/internal/db/query"
	"github.com/schemaward/schemaward/internal/db/version"
)

type cmdStatus struct {
	global *cmdGlobal
}

func (c *cmdStatus) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "status"
	cmd.Short = "List the applied migrations"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.run

	return cmd
}

func (c *cmdStatus) run(cmd *cobra.Command, args []string) error {
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

	var records []version.Record
	err = query.Transaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		err := version.EnsureSchema(ctx, tx)
		if err != nil {
			return err
		}

		records, err = version.History(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No migrations applied")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"VERSION", "MIGRATED AT", "APPLIED SQL"})
	for _, r := range records {
		table.Append([]string{r.Version, r.MigratedAt.Format(time.RFC3339), firstLine(r.AppliedSQL)})
	}

	table.Render()
	return nil
}

// firstLine trims a recorded SQL text down to something table-sized.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}

	return s
}
