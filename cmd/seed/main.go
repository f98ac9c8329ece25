package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"circles/internal/database"
	"circles/internal/domain/auth"
	"circles/internal/domain/friends"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "circles.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&auth.RefreshToken{},
		&friends.FriendRequest{},
		&friends.Friendship{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM friendships")
	db.Exec("DELETE FROM friend_requests")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	demo := []struct {
		email, first, last string
		age                int
	}{
		{"arthur@example.com", "Arthur", "Dent", 30},
		{"ford@example.com", "Ford", "Prefect", 34},
		{"trillian@example.com", "Trillian", "Astra", 28},
		{"zaphod@example.com", "Zaphod", "Beeblebrox", 42},
	}

	for _, d := range demo {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password1!"), bcrypt.DefaultCost)
		user := auth.User{
			Email:     d.email,
			Password:  string(hash),
			FirstName: d.first,
			LastName:  d.last,
			Age:       d.age,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("seed user %s failed: %v", d.email, err)
		}
		log.Printf("User created: %s / password1!", d.email)
	}

	log.Println("Seed completed")
}
