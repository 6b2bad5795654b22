package main

import (
	"context"
	"log"
	"os"

	"github.com/riskcheck/console/internal/buildinfo"
	"github.com/riskcheck/console/internal/client/cli"
	"github.com/riskcheck/console/internal/client/config"
)

func main() {

	buildinfo.PrintBanner(os.Stdout, "RiskCheck")
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
