package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
)

type UserStorage interface {
	RegisterUser(name, email, password string, role model.Role) (*model.User, error)
	// LoginUser принимает email или номер зачетки (только цифры)
	LoginUser(credential, password string) (*model.User, error)
	SetNewPassword(indexNumber, newPassword string) error
	GetUserByID(id string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	PendingIndexNumbers() ([]string, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error)
}

var indexNumberRe = regexp.MustCompile(`^[0-9]+$`)

func IsIndexNumber(credential string) bool {
	return indexNumberRe.MatchString(credential)
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateRegistration(name, email, password string, role model.Role) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("name, email and password are required: %w", access.ErrValidation)
	}
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q: %w", role, access.ErrValidation)
	}
	return nil
}

// Пользователь, созданный при первой установке пароля по номеру зачетки
func PendingStudent(id, indexNumber string) *model.User {
	idx := indexNumber
	return &model.User{
		ID:          id,
		Name:        "Student " + indexNumber,
		Email:       "student" + indexNumber + "@campus.edu",
		Role:        model.RoleStudent,
		IndexNumber: &idx,
	}
}

func ApplyProfilePatch(u *model.User, patch model.ProfilePatch) error {
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return fmt.Errorf("name must not be empty: %w", access.ErrValidation)
		}
		u.Name = *patch.Name
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	if patch.Avatar != nil {
		u.Avatar = patch.Avatar
	}
	if patch.Interests != nil {
		u.Interests = append([]string{}, (*patch.Interests)...)
	}
	return nil
}
