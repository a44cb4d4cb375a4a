// Command createuser adds an API user. The password is read from -password
// or, when omitted, generated and printed once.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	"docvault/internal/logger"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
)

func main() {
	username := flag.String("username", "", "username of the new user")
	password := flag.String("password", "", "password (generated when empty)")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -username NAME [-password PASS]")
		os.Exit(2)
	}

	generated := *password == ""
	if generated {
		*password = randomPassword(12)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	auth := service.NewAuthService(postgres.NewUserPostgres(db), cfg.Auth)
	user, err := auth.CreateUser(ctx, service.NewUserInput{Username: *username, Password: *password})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			log.Fatal("user rejected", zap.Any("fields", verr.Fields))
		}
		log.Fatal("failed to create user", zap.Error(err))
	}

	fmt.Println("User created successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", user.Username)
	if generated {
		fmt.Printf("Password: %s\n", *password)
	}
	fmt.Println("======================================")
}

func randomPassword(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
