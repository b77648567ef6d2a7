package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/activities"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/config"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/store"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/workflows"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, cleanup, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer cleanup()

	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
		Logger:   tlog.NewStructuredLogger(logger),
		Identity: "ecommerce-worker-" + hostname(),
	})
	if err != nil {
		return err
	}
	defer c.Close()

	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.OrderWorkflow)
	w.RegisterWorkflow(workflows.ShippingWorkflow)
	w.RegisterWorkflow(workflows.CustomerRewardsWorkflow)

	w.RegisterActivity(activities.NewOrderActivities(st))
	w.RegisterActivity(activities.NewBalanceActivities(st))
	w.RegisterActivityWithOptions(activities.NewPaymentActivities(), activity.RegisterOptions{SkipInvalidStructFunctions: true})
	w.RegisterActivity(activities.NewInventoryActivities(st))
	w.RegisterActivity(activities.NewShippingActivities())
	w.RegisterActivity(activities.NewNotificationActivities())
	w.RegisterActivity(activities.NewRewardsActivities(st, c, cfg.TaskQueue))

	logger.Info("worker starting", "taskQueue", cfg.TaskQueue, "temporal", cfg.TemporalHost)
	return w.Run(worker.InterruptCh())
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
