// Command makeadmin promotes a user to admin by email. Role escalation is
// deliberately not exposed through the API.
//
// Usage: makeadmin <email>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightideas/bright-ideas-backend/internal/config"
	"github.com/brightideas/bright-ideas-backend/internal/database"
	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
	"github.com/brightideas/bright-ideas-backend/internal/storage/mongostore"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: makeadmin <email>")
		os.Exit(1)
	}
	email := os.Args[1]

	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := mongostore.NewUserStore(database.DB)
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if err == storage.ErrNotFound {
			log.Fatalf("User with email %q not found", email)
		}
		log.Fatal("Failed to fetch user: ", err)
	}

	if user.IsAdmin() {
		fmt.Printf("User %q (%s) is already admin\n", user.Alias, email)
		return
	}

	update := bson.M{"$set": bson.M{"role": models.RoleAdmin, "updatedAt": time.Now().UTC()}}
	if _, err := database.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		log.Fatal("Failed to update role: ", err)
	}

	fmt.Printf("User %q (%s) is now admin\n", user.Alias, email)
}
