package main

import (
	"context"
	"log"
	"os"

	"github.com/riskcheck/console/internal/buildinfo"
	"github.com/riskcheck/console/internal/gateway"
	"github.com/riskcheck/console/internal/gateway/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := gateway.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
