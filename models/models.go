package models

import "time"

// Списки (интересы, подписки, теги) хранятся как JSON в текстовых колонках

type User struct {
	ID          string `gorm:"primary_key;type:varchar(36)"`
	Position    int64  `gorm:"index"`
	Name        string
	Email       string `gorm:"unique_index"`
	Role        string
	Avatar      *string
	Bio         *string `gorm:"type:text"`
	Interests   string  `gorm:"type:text"`
	Following   string  `gorm:"type:text"`
	Followers   string  `gorm:"type:text"`
	IndexNumber *string `gorm:"unique_index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Credential - bcrypt хеш пароля по email или номеру зачетки
type Credential struct {
	Login        string `gorm:"primary_key"`
	UserID       string `gorm:"index"`
	PasswordHash string
}

// PendingIndex - номер зачетки, для которого пароль еще не задан
type PendingIndex struct {
	IndexNumber string `gorm:"primary_key"`
}

func (PendingIndex) TableName() string {
	return "pending_index_numbers"
}

type Post struct {
	ID          string `gorm:"primary_key;type:varchar(36)"`
	Position    int64  `gorm:"index"`
	Title       string
	Content     string `gorm:"type:text"`
	Excerpt     string `gorm:"type:text"`
	AuthorID    string `gorm:"index"`
	PublishedAt *time.Time
	IsPublished bool
	IsDraft     bool
	Category    string
	Tags        string `gorm:"type:text"`
	ImageURL    *string
	Likes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment `gorm:"foreignkey:PostID"`
}

type Comment struct {
	ID        string `gorm:"primary_key;type:varchar(36)"`
	Position  int64  `gorm:"index"`
	Content   string `gorm:"type:text"`
	PostID    string `gorm:"index"`
	AuthorID  string
	Likes     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
