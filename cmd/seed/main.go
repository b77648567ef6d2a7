package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/config"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/server"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/store"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

var products = []types.Product{
	{SKU: "PROD001", Name: "Laptop", Price: 999.99, Stock: 10, Description: "High-performance laptop"},
	{SKU: "PROD002", Name: "Smartphone", Price: 699.99, Stock: 15, Description: "Latest smartphone model"},
	{SKU: "PROD003", Name: "Headphones", Price: 199.99, Stock: 20, Description: "Noise-cancelling headphones"},
	{SKU: "PROD004", Name: "Smartwatch", Price: 299.99, Stock: 8, Description: "Fitness tracking smartwatch"},
	{SKU: "PROD005", Name: "Tablet", Price: 499.99, Stock: 12, Description: "10-inch tablet"},
}

const initialBalance = 2000

// Seeds the database with a fresh catalog and demo account. Drops all
// existing data first.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, cleanup, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := st.Reset(ctx); err != nil {
		logger.Error("failed to reset database", "error", err)
		os.Exit(1)
	}
	if err := st.SeedInventory(ctx, products); err != nil {
		logger.Error("failed to seed inventory", "error", err)
		os.Exit(1)
	}
	if err := st.InitBalance(ctx, server.DefaultUserID, initialBalance); err != nil {
		logger.Error("failed to initialize balance", "error", err)
		os.Exit(1)
	}

	logger.Info("database seeded", "products", len(products), "user", server.DefaultUserID, "balance", initialBalance)
}
