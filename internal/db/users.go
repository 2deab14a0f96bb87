package db

import (
	"log"

	"ytvd/internal/models"
)

// FindOrCreateUserByUsername inserts a new user or touches an existing one.
func FindOrCreateUserByUsername(username string) (*models.User, error) {
	query := `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET
			updated_at = NOW()
		RETURNING id, username, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, username)
	if err != nil {
		log.Printf("Error upserting user %q: %v", username, err)
		return nil, err
	}
	return user, nil
}

func GetUserByID(id int64) (models.User, error) {
	user := models.User{}
	err := DB.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	return user, err
}

func GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users ORDER BY id")
	return users, err
}
