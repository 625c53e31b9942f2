package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"order-management/internal/common/httpx"
	"order-management/internal/common/logger"
	"order-management/internal/config"
	"order-management/internal/connections/database"
	"order-management/internal/connections/rabbitmq"
	"order-management/internal/events"
	"order-management/internal/handlers"
	"order-management/internal/repository"
	"order-management/internal/seed"
	"order-management/internal/service"
)

func main() {
	mode := flag.String("mode", "serve", "serve | seed")
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml)")
	flag.Parse()

	lg := logger.New("order-management")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *mode, *configPath, lg); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, mode, configPath string, lg *logger.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	customers := repository.NewCustomerRepository(db)
	orders := repository.NewOrderRepository(db)
	users := repository.NewUserRepository(db)

	switch mode {
	case "seed":
		return seed.Run(ctx, users, customers, orders, lg)
	case "serve":
	default:
		return fmt.Errorf("unknown mode %q: serve | seed", mode)
	}

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		mq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer mq.Close()
		if err := mq.DeclareTopology(); err != nil {
			return fmt.Errorf("declare rabbitmq topology: %w", err)
		}
		pub = events.NewAMQPPublisher(mq, lg)
	}

	svc := service.New(customers, orders, users, pub, lg)
	h := handlers.New(svc, lg)

	lg.Info("service_started", map[string]any{
		"port": cfg.Server.Port, "events_enabled": cfg.RabbitMQ.Enabled,
	})
	return httpx.New(fmt.Sprintf(":%d", cfg.Server.Port), handlers.Router(h)).Run(ctx)
}
