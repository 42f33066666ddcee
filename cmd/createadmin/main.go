package main

import (
	"context"
	"flag"
	"log"

	"github.com/boypaida12/kidsjourneyhub/internal/config"
	"github.com/boypaida12/kidsjourneyhub/internal/db"
	"github.com/boypaida12/kidsjourneyhub/internal/user"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg := config.LoadConfig()
	database := db.InitDB(cfg)
	defer database.Close()

	hash, err := user.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	repo := user.NewRepository(database)
	admin := &user.Admin{
		Email:        *email,
		Name:         *name,
		PasswordHash: hash,
	}

	if err := repo.Upsert(context.Background(), admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin %s ready", *email)
}
