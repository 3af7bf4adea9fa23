//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kanbanlab/goban/internal/auth"
	"github.com/kanbanlab/goban/internal/database"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/repository"
	"github.com/kanbanlab/goban/pkg/config"
	"github.com/kanbanlab/goban/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create demo user
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(repository.NewUserRepository(db), jwtService)

	name := os.Getenv("DEMO_USERNAME")
	email := os.Getenv("DEMO_EMAIL")
	password := os.Getenv("DEMO_PASSWORD")

	if name == "" {
		name = "demo"
	}
	if email == "" {
		email = "demo@example.com"
	}
	if password == "" {
		password = "demo123!"
	}

	ctx := context.Background()

	resp, err := authService.Register(ctx, auth.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		if kanban.IsKind(err, kanban.KindAlreadyExists) {
			fmt.Printf("Demo user already exists: %s\n", name)
			return
		}
		log.Fatalf("failed to create demo user: %v", err)
	}

	// Create demo board with the classic three columns
	boards := repository.NewBoardRepository(db)
	columns := repository.NewColumnRepository(db)

	board := models.Board{Name: "Sprint", Visibility: models.VisibilityPrivate}
	if err := boards.Create(ctx, &board, resp.User.ID); err != nil {
		log.Fatalf("failed to create demo board: %v", err)
	}

	for _, columnName := range []string{"To do", "In progress", "Done"} {
		column := models.Column{Name: columnName}
		if err := columns.SaveToBoard(ctx, &column, board.ID); err != nil {
			log.Fatalf("failed to create column %q: %v", columnName, err)
		}
	}

	fmt.Printf("Demo user created successfully!\n")
	fmt.Printf("Username: %s\n", resp.User.Name)
	fmt.Printf("Board: %s (id %d)\n", board.Name, board.ID)
	fmt.Printf("Token: %s\n", resp.Token)
}
