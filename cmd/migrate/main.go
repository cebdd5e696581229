package main

// Apply or inspect database migrations:
//   go run ./cmd/migrate [up|down|status|version|reset]

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	databaseURL := fs.String("database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	command := "up"
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "usage: migrate [up|down|status|version|reset]")
		return 2
	}
	if fs.NArg() == 1 {
		command = fs.Arg(0)
	}

	url := *databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}
	sqlDB, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		fmt.Fprintf(stderr, "connect database: %v\n", err)
		return 1
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		fmt.Fprintf(stderr, "migrate %s: %v\n", command, err)
		return 1
	}
	return 0
}
