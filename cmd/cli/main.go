package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bladmin/internal/buildinfo"
	"github.com/dmitrijs2005/bladmin/internal/client/cli"
	"github.com/dmitrijs2005/bladmin/internal/client/config"
	"github.com/dmitrijs2005/bladmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
