package main

import (
	"context"
	"fmt"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/logger"
	"moodmingle/backend/internal/storage"
	"moodmingle/backend/internal/validation"
	"os"
	"strings"
)

const usage = `Usage: admin <command> [args]

Commands:
  migrate                  create or update the database schema
  user <user_id>           show a user
  history <room_id>        print a room's message history
  clear-hearts <user_id>   delete every heart received by the user
  clear-requests <user_id> delete every pending chat request addressed to the user`

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.Log.Level)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.Database, true)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	// Redis не потрібен для admin CLI.
	storageSvc := storage.NewStorageService(db, nil, 0, log)
	ctx := context.Background()

	command := os.Args[1]

	switch command {
	case "migrate":
		if err := storage.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		fmt.Println("Schema is up to date.")
	case "user":
		userID := requireUserID("user")
		user, err := storageSvc.GetUserByID(ctx, userID)
		if err != nil {
			log.Fatal().Err(err).Msg("lookup failed")
		}
		if user == nil {
			fmt.Printf("User %d not found.\n", userID)
			os.Exit(1)
		}
		mood := "-"
		if user.CurrentMoodID != nil {
			mood = *user.CurrentMoodID
		}
		fmt.Printf("#%d %s  mood=%s  status=%q  last_active=%s\n",
			user.ID, user.Username, mood, user.Status, user.LastActive.Format("2006-01-02 15:04:05"))
	case "history":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin history <room_id>")
			os.Exit(1)
		}
		roomID := strings.ToLower(strings.TrimSpace(os.Args[2]))
		messages, err := storageSvc.GetRoomHistory(ctx, roomID)
		if err != nil {
			log.Fatal().Err(err).Msg("history failed")
		}
		for _, m := range messages {
			fmt.Printf("[%d] %s %s: %s\n", m.ID, m.Time, m.User, m.Text)
		}
		fmt.Printf("%d message(s) in %s.\n", len(messages), roomID)
	case "clear-hearts":
		userID := requireUserID("clear-hearts")
		n, err := storageSvc.ClearHearts(ctx, userID)
		if err != nil {
			log.Fatal().Err(err).Msg("clear hearts failed")
		}
		fmt.Printf("Deleted %d heart(s) for user %d.\n", n, userID)
	case "clear-requests":
		userID := requireUserID("clear-requests")
		n, err := storageSvc.ClearPendingRequests(ctx, userID)
		if err != nil {
			log.Fatal().Err(err).Msg("clear requests failed")
		}
		fmt.Printf("Deleted %d pending request(s) for user %d.\n", n, userID)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func requireUserID(command string) uint {
	if len(os.Args) != 3 {
		fmt.Printf("Usage: admin %s <user_id>\n", command)
		os.Exit(1)
	}
	id, err := validation.UserID(os.Args[2])
	if err != nil {
		fmt.Println("Invalid user ID. Please provide a positive integer.")
		os.Exit(1)
	}
	return id
}
