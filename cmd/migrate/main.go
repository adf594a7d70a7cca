// Command migrate applies the schema of every bounded context.
//
//	migrate          # apply pending migrations
//	migrate status   # list applied and pending migrations
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/wono/hostpanel/migrations/company"
	"github.com/wono/hostpanel/migrations/hostuser"
	"github.com/wono/hostpanel/migrations/website"
	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/migrator"
)

// Applied in this order on every run.
var sets = []migrator.Set{
	{Service: "company", FS: company.FS},
	{Service: "hostuser", FS: hostuser.FS},
	{Service: "website", FS: website.FS},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	ctx := context.Background()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = migrator.Up(ctx, cfg.DefinitionDatabaseURL, log, sets...)
	case "status":
		err = migrator.Status(ctx, cfg.DefinitionDatabaseURL, sets...)
	default:
		log.Error("unknown command", "command", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Error("migration failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}
