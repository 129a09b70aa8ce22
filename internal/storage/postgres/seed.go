package postgres

import (
	"fmt"
	"log"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/models"
)

// Seed заполняет пустую базу начальными данными. Если пользователи уже есть, ничего не делает.
func Seed(users *UserPostgresStorage, seedUsers []*model.User, seedPosts []*model.Post, pending []string, password string) error {
	var count int
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("could not count users: %w", err)
	}
	if count > 0 {
		log.Println("Database already seeded.")
		return nil
	}

	for _, u := range seedUsers {
		if err := users.InsertUser(u, password); err != nil {
			return err
		}
	}
	if err := users.AddPending(pending...); err != nil {
		return err
	}
	for _, p := range seedPosts {
		if err := InsertPost(p); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d users and %d posts.", len(seedUsers), len(seedPosts))
	return nil
}
