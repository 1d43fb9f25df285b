package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/config"
	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
)

// Seeds a verified demo account with one board, two columns, and three
// cards so a fresh environment has something to click on.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	boards := mongodb.NewBoardRepository(db)
	columns := mongodb.NewColumnRepository(db)
	cards := mongodb.NewCardRepository(db)

	existing, err := users.FindByEmail(ctx, "demo@example.com")
	if err != nil {
		log.Fatalf("lookup demo user: %v", err)
	}
	if existing != nil {
		log.Println("demo user already seeded, nothing to do")
		return
	}

	hash, err := helpers.HashPassword("demo1234")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	userID, err := users.Create(ctx, &entity.User{
		Email:       "demo@example.com",
		Password:    hash,
		Username:    "demo",
		DisplayName: "Demo User",
		IsActive:    true,
	})
	if err != nil {
		log.Fatalf("create demo user: %v", err)
	}

	boardID, err := boards.Create(ctx, &entity.Board{
		Title:       "Getting Started",
		Slug:        helpers.Slugify("Getting Started"),
		Description: "A sample board to explore the basics",
		Type:        entity.BoardTypePublic,
		OwnerIds:    []primitive.ObjectID{userID},
	})
	if err != nil {
		log.Fatalf("create board: %v", err)
	}

	titles := []string{"To Do", "Doing"}
	cardTitles := map[string][]string{
		"To Do": {"Invite your team", "Create your first card"},
		"Doing": {"Explore the board"},
	}
	for _, title := range titles {
		colID, err := columns.Create(ctx, &entity.Column{
			BoardID: boardID,
			Title:   title,
		})
		if err != nil {
			log.Fatalf("create column %q: %v", title, err)
		}
		if err := boards.PushColumnOrderID(ctx, boardID, colID); err != nil {
			log.Fatalf("append column order: %v", err)
		}
		for _, cardTitle := range cardTitles[title] {
			cardID, err := cards.Create(ctx, &entity.Card{
				BoardID:  boardID,
				ColumnID: colID,
				Title:    cardTitle,
			})
			if err != nil {
				log.Fatalf("create card %q: %v", cardTitle, err)
			}
			if err := columns.PushCardOrderID(ctx, colID, cardID); err != nil {
				log.Fatalf("append card order: %v", err)
			}
		}
	}

	log.Printf("seeded demo user %s and board %s", userID.Hex(), boardID.Hex())
}
