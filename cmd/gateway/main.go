package main

import (
	"context"

	"staybook/internal/booking/bootstrap"
	"staybook/internal/booking/handler"
	"staybook/pkg/app"
	"staybook/pkg/config"
)

const ServiceName = "staybook-gateway"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting booking gateway")
	stack, err := bootstrap.Build(context.Background(), cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking service", "error", err)
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewBookingHandler(stack.Service, cfg.DefaultAdults, cfg.Log),
		handler.NewHealthHandler(stack.Checks, cfg.Log),
	)
	serverApp.OnShutdown(func(ctx context.Context) { stack.Close(ctx, cfg) })
	serverApp.Run()
}
