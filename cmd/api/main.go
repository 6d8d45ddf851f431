// @title Order Management API
// @version 1.0
// @description Create, fetch, list and progress orders through NEW, PROCESSING and COMPLETED.
// @BasePath /
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/order-mgmt-service/internal/app/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.Run(ctx); err != nil {
		log.Fatalf("order api exited: %v", err)
	}
}
