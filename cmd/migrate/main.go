// Command migrate applies the embedded SQL migrations.
//
//	migrate [up|down|status|reset]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prasaddsahil07/vdoTube/internal/migrations"
	"github.com/prasaddsahil07/vdoTube/pkg/config"
	"github.com/prasaddsahil07/vdoTube/pkg/database"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
)

func main() {
	cmd := database.MigrateUp
	if len(os.Args) > 1 {
		cmd = database.MigrationCommand(os.Args[1])
	}
	switch cmd {
	case database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateReset:
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status|reset]\n")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(&logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: "migrate",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.Get()

	if err := cfg.ValidateDatabase(); err != nil {
		appLog.Fatal(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      2,
		MinConns:      1,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := db.Migrate(ctx, migrations.FS, cmd); err != nil {
		appLog.Fatal(fmt.Sprintf("migrate %s failed: %v", cmd, err))
	}
	appLog.Info(fmt.Sprintf("migrate %s done", cmd))
}
