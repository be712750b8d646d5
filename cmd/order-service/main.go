package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/deppfellow/shop-microservices/internal/app"
	"github.com/deppfellow/shop-microservices/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, config.OrderService); err != nil {
		log.Fatal().Err(err).Msg("order-service exited with error")
	}
}
