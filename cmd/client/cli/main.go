package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/agentmarket/internal/client/cli"
	"github.com/dmitrijs2005/agentmarket/internal/client/config"
	"github.com/dmitrijs2005/agentmarket/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)
}
