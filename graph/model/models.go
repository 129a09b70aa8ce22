package model

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEducator Role = "educator"
	RoleStudent  Role = "student"
	RoleGuest    Role = "guest"
)

var AllRole = []Role{
	RoleAdmin,
	RoleEducator,
	RoleStudent,
	RoleGuest,
}

func (e Role) IsValid() bool {
	switch e {
	case RoleAdmin, RoleEducator, RoleStudent, RoleGuest:
		return true
	}
	return false
}

func (e Role) String() string {
	return string(e)
}

func (e *Role) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = Role(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid Role", str)
	}
	return nil
}

func (e Role) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

// ParseRole возвращает роль по строке, пустая строка означает student
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleStudent, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%s is not a valid Role", s)
	}
	return r, nil
}

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Avatar      *string   `json:"avatar,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Interests   []string  `json:"interests,omitempty"`
	Following   []string  `json:"following,omitempty"`
	Followers   []string  `json:"followers,omitempty"`
	IndexNumber *string   `json:"indexNumber,omitempty"`
}

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	AuthorID    string     `json:"authorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	IsPublished bool       `json:"isPublished"`
	IsDraft     bool       `json:"isDraft"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Likes       int        `json:"likes"`
	Comments    []*Comment `json:"comments"`
}

// Timestamp - дата публикации, а для черновиков дата создания
func (p *Post) Timestamp() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	PostID    string    `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Likes     int       `json:"likes"`
}

type NewPost struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	IsPublished *bool    `json:"isPublished,omitempty"`
	IsDraft     *bool    `json:"isDraft,omitempty"`
}

// PostPatch - частичное обновление поста, nil поля не меняются
type PostPatch struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Excerpt     *string   `json:"excerpt,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
	IsDraft     *bool     `json:"isDraft,omitempty"`
}

type ProfilePatch struct {
	Name      *string   `json:"name,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Interests *[]string `json:"interests,omitempty"`
}

type SortMode string

const (
	SortNewest        SortMode = "newest"
	SortOldest        SortMode = "oldest"
	SortMostLiked     SortMode = "most-liked"
	SortMostCommented SortMode = "most-commented"
)

func (e SortMode) IsValid() bool {
	switch e {
	case SortNewest, SortOldest, SortMostLiked, SortMostCommented:
		return true
	}
	return false
}

type PostFilter struct {
	Query    string   `json:"query,omitempty"`
	Category string   `json:"category,omitempty"`
	Tag      string   `json:"tag,omitempty"`
	Sort     SortMode `json:"sort,omitempty"`
}

type Stats struct {
	TotalPosts      int            `json:"totalPosts"`
	PublishedPosts  int            `json:"publishedPosts"`
	DraftPosts      int            `json:"draftPosts"`
	TotalUsers      int            `json:"totalUsers"`
	UsersByRole     map[Role]int   `json:"usersByRole"`
	TotalComments   int            `json:"totalComments"`
	TotalLikes      int            `json:"totalLikes"`
	PostsByCategory map[string]int `json:"postsByCategory"`
}

type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SearchResult struct {
	Posts []*Post `json:"posts"`
	Users []*User `json:"users"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
