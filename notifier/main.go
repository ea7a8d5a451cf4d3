package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/config"
)

func main() {
	cfg := config.LoadConfig()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, err := NewNats(cfg.Nats.ConnStr())
	if err != nil {
		log.Fatal(err)
	}
	defer nc.Close()

	db, err := gorm.Open(postgres.Open(cfg.Postgres.ConnStr()), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	handler := NewHandler(db)

	workers := cfg.Notifier.Workers
	queueSize := cfg.Notifier.QueueSize
	slog.Info("starting notifier", "workers", workers, "queueSize", queueSize)

	pool := NewWorkerPool(ctx, workers, queueSize, handler.HandleEvent)

	group := errgroup.Group{}
	errChan := make(chan error)

	group.Go(func() error {
		return nc.Subscribe(ctx, cfg.Nats.SubjectPrefix+".>", pool)
	})

	go func() {
		errChan <- group.Wait()
	}()

	select {
	case <-shutdown:
		slog.Info("shutting down")
		cancel()
	case err := <-errChan:
		slog.Info("shutting down due to error", "error", err)
		cancel()
	}

	pool.Stop()
	pool.Wait()
}
