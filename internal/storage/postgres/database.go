package postgres

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/VitaminP8/campusconnect/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB(dsn string) error {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	DB = db
	log.Println("Successfully connected to the database.")
	return nil
}

// Migrate создает или обновляет таблицы
func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.PendingIndex{},
		&models.Post{},
		&models.Comment{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	log.Println("Database connection closed.")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// nextPosition - следующий порядковый номер строки, задает порядок вставки
func nextPosition(tx *gorm.DB, table interface{}) (int64, error) {
	var max int64
	row := tx.Model(table).Select("COALESCE(MAX(position), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("could not get next position: %w", err)
	}
	return max + 1, nil
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func decodeList(s string) []string {
	if s == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		log.Printf("could not decode list %q: %v", s, err)
		return nil
	}
	return values
}
