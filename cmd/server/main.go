package main

import (
	"context"
	"log"

	"github.com/frostgate/frostgate/internal/server"
	"github.com/frostgate/frostgate/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
