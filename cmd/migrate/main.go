// Command migrate creates the todo table if it does not exist yet.
// Run it once before starting the API, and again after schema changes.
//
// Usage: go run ./cmd/migrate
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/database"
)

func main() {
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("--- RUNNING MIGRATION SCRIPT ---")
	fmt.Println(separator)

	if err := run(); err != nil {
		fmt.Printf("Error during database migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database tables created successfully (or already exist).")
	fmt.Println("--- MIGRATION SCRIPT COMPLETE ---")
}

func run() error {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		return err
	}
	defer store.Close()

	// Run migrations
	if err := store.Init(); err != nil {
		return err
	}

	// Health check
	return store.HealthCheck()
}
