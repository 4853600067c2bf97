package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"iqfieldbot/internal/model"
)

// Seeds a demo account for local development.
func main() {
	mongoURI := os.Getenv("IQFB_MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("IQFB_MONGO_DATABASE")
	if database == "" {
		database = "iqfieldbot"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	users := client.Database(database).Collection("users")

	email := "demo@iqfieldbot.dev"
	if n, err := users.CountDocuments(ctx, map[string]interface{}{"email": email}); err == nil && n > 0 {
		fmt.Printf("Demo user %s already exists, nothing to do\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := model.User{
		ID:              "u_" + uuid.New().String()[:8],
		Email:           email,
		Name:            "Demo User",
		PasswordHash:    string(hash),
		PreferredFields: []model.Field{model.FieldMath, model.FieldLogic},
		CreatedAt:       time.Now(),
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		log.Fatalf("Failed to insert demo user: %v", err)
	}

	fmt.Printf("Seeded demo user %s (id %s)\n", user.Email, user.ID)
	fmt.Println("Password: demo-password")
}
