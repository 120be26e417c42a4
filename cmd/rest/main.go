package main

import (
	"context"
	"log"

	"github.com/mahdyhasan/augmind/internal/bootstrap"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/server"
	"github.com/mahdyhasan/augmind/internal/tracer"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()
	cfg.MustValidate()

	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// Background workers: connectivity probing, websocket fan-out, auth
	// event relay.
	ctx := context.Background()
	go container.Policy.Run(ctx)
	go container.WebSocketHub.Run(ctx)
	if err := container.WebSocketHub.RelayAuthEvents(ctx, container.Subscriber); err != nil {
		log.Printf("[WARN] Auth event relay not started: %v", err)
	}

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
