// Command main promotes an existing account to admin, resetting its
// password in the same step.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"oacmarket/internal/config"
	"oacmarket/internal/database"
	"oacmarket/internal/models"
	"oacmarket/internal/repository"
)

func main() {
	email := flag.String("email", "", "Email of the account to promote")
	password := flag.String("password", "", "New password for the account")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: makeadmin -email <email> -password <new password>")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := repository.NewUserRepository(db)
	if err := users.PromoteToAdmin(context.Background(), *email, string(hash)); err != nil {
		if models.IsNotFound(err) {
			log.Fatalf("No account found for %s", *email)
		}
		log.Fatalf("Failed to promote account: %v", err)
	}

	fmt.Printf("Promoted %s to admin\n", *email)
}
