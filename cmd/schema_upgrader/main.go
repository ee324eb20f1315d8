package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/investperdiem/perdiem/pkg/domain/perdiem/db/postgres"
	"github.com/investperdiem/perdiem/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Database string `flag:"database" help:"URL of the database. (default: $PERDIEM_DATABASE_URL)"`
	Schema   string `flag:"schema" help:"The path to the schema repository directory. (default: $PERDIEM_SCHEMA)"`
	Show     bool   `flag:"show" help:"Print the schema version of the database, without upgrading."`
}

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		Flag{
			Database: os.Getenv("PERDIEM_DATABASE_URL"),
			Schema:   os.Getenv("PERDIEM_SCHEMA"),
		},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[Flag], a []any) error {
			flags := c.Flags()
			if flags.Database == "" {
				return fmt.Errorf("%w: --database is required", flarc.ErrUsage)
			}

			options := []postgres.Option{}
			if !flags.Show {
				if flags.Schema == "" {
					return fmt.Errorf("%w: --schema is required", flarc.ErrUsage)
				}
				options = append(options, postgres.WithSchemaRepository(flags.Schema))
			}

			db, err := postgres.New(ctx, flags.Database, options...)
			if err != nil {
				return err
			}
			defer db.Close()

			if !flags.Show {
				logger.Printf("upgrading schema by %s ...", flags.Schema)
				if err := db.Schema().Upgrade(ctx); err != nil {
					return err
				}
			}

			v, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.Stdout(), "schema version: %d\n", v)
			return err
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}
