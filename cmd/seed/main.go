package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/database"
)

// Usage: go run ./cmd/seed [task ...]
func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM(getEnv)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	tasks := os.Args[1:]
	if len(tasks) == 0 {
		tasks = database.DefaultSeedTasks
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Todo API - Database Seeding")
	fmt.Println(separator)

	added, err := database.SeedTodos(context.Background(), store, tasks)
	if err != nil {
		store.Close()
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Seeding completed: %d of %d todos added.\n", added, len(tasks))
	fmt.Println("Run cmd/migrate first if the todo table does not exist yet.")
}
