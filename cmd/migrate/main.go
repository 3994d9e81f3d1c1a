package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/onerilhan/go-portfolio-api/internal/config"
	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/logger"
	"github.com/onerilhan/go-portfolio-api/internal/migration"
)

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)

	migrationConfig := migration.CLIConfig()
	if !cfg.IsProduction() {
		migrationConfig.AllowDirty = true
	}

	// create için veritabanı gerekmez
	if command == "create" {
		handleCreate(migrationConfig.MigrationsPath, os.Args[2:])
		return
	}

	database, err := db.Connect(cfg.GetDSN())
	if err != nil {
		fmt.Printf("Database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	runner, err := migration.NewRunner(database, migrationConfig)
	if err != nil {
		fmt.Printf("Migration runner could not be created: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch command {
	case "status":
		handleStatus(ctx, runner)
	case "up":
		handleUp(ctx, runner, os.Args[2:])
	case "down":
		handleDown(ctx, runner, os.Args[2:])
	case "init":
		if err := runner.Initialize(ctx); err != nil {
			fmt.Printf("Initialization failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migration system initialized successfully!")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`
Migration CLI Tool

USAGE:
    go run cmd/migrate/main.go <command> [arguments]

COMMANDS:
    status              Show migration status
    up [version]        Apply pending migrations (up to optional version)
    down <version>      Rollback migrations newer than version (0 = all)
    create <name>       Create new migration files
    init                Initialize migration tracking table
`)
}

func parseVersion(args []string, required bool) int64 {
	if len(args) == 0 {
		if required {
			fmt.Println("Target version required")
			os.Exit(1)
		}
		return 0
	}

	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || version < 0 {
		fmt.Printf("Invalid version number: %s\n", args[0])
		os.Exit(1)
	}
	return version
}

func handleStatus(ctx context.Context, runner *migration.Runner) {
	status, err := runner.GetStatus(ctx)
	if err != nil {
		fmt.Printf("Failed to get migration status: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Current Version: %d\n", status.CurrentVersion)
	fmt.Printf("  Applied: %d\n", status.AppliedCount)
	fmt.Printf("  Pending: %d\n", status.PendingCount)
	fmt.Printf("  System Health: %s\n", status.SystemHealth)

	if len(status.Migrations) > 0 {
		fmt.Println("\n  VERSION          | STATUS   | NAME")
		fmt.Println("  -----------------|----------|--------------------")
		for _, m := range status.Migrations {
			state := "PENDING"
			appliedAt := ""
			if m.Applied {
				state = "APPLIED"
				if m.AppliedAt != nil {
					appliedAt = fmt.Sprintf(" (%s)", m.AppliedAt.Format("2006-01-02 15:04"))
				}
			}
			if m.ChecksumDiff {
				state = "CHANGED"
			}
			fmt.Printf("  %16d | %-8s | %s%s\n", m.Version, state, m.Name, appliedAt)
		}
	}
}

func printResults(results []migration.Result) {
	for _, result := range results {
		state := "FAILED"
		switch {
		case result.Skipped:
			state = "SKIPPED"
		case result.Success:
			state = "SUCCESS"
		}
		fmt.Printf("  %s | Version %d | %s | %v\n", state, result.Version, result.Name, result.ExecutionTime.Round(time.Millisecond))
		if result.Error != "" {
			fmt.Printf("    Error: %s\n", result.Error)
		}
	}
}

func handleUp(ctx context.Context, runner *migration.Runner, args []string) {
	target := parseVersion(args, false)

	results, err := runner.RunUp(ctx, target)
	printResults(results)
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No pending migrations to apply")
		return
	}
	fmt.Println("Migrations applied successfully!")
}

func handleDown(ctx context.Context, runner *migration.Runner, args []string) {
	target := parseVersion(args, true)

	fmt.Printf("WARNING: This will rollback your database to version %d!\n", target)
	fmt.Printf("Are you sure you want to continue? (y/N): ")

	var response string
	fmt.Scanln(&response)
	if r := strings.ToLower(response); r != "y" && r != "yes" {
		fmt.Println("Rollback cancelled")
		return
	}

	results, err := runner.RunDown(ctx, target)
	printResults(results)
	if err != nil {
		fmt.Printf("Rollback failed: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No migrations to rollback")
		return
	}
	fmt.Println("Rollback completed successfully!")
}

func handleCreate(path string, args []string) {
	if len(args) == 0 {
		fmt.Println("Migration name required")
		fmt.Println("Example: create \"add_btc_price_index\"")
		os.Exit(1)
	}

	upPath, downPath, err := migration.Create(path, strings.Join(args, " "), time.Now())
	if err != nil {
		fmt.Printf("Failed to create migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  Created: %s\n", upPath)
	fmt.Printf("  Created: %s\n", downPath)
}
