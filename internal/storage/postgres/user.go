package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/user"
	"github.com/VitaminP8/campusconnect/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct {
	cost int
}

func NewUserPostgresStorage(cost int) *UserPostgresStorage {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserPostgresStorage{cost: cost}
}

func (s *UserPostgresStorage) RegisterUser(name, email, password string, role model.Role) (*model.User, error) {
	if err := user.ValidateRegistration(name, email, password, role); err != nil {
		return nil, err
	}
	email = user.NormalizeEmail(email)

	// проверка - существует ли такой пользователь
	var count int
	if err := DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not check email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("email %s already registered: %w", email, access.ErrValidation)
	}

	u := &model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := s.InsertUser(u, password); err != nil {
		return nil, err
	}
	return u, nil
}

// InsertUser сохраняет пользователя и его пароль по email и номеру зачетки
func (s *UserPostgresStorage) InsertUser(u *model.User, password string) error {
	logins := []string{u.Email}
	if u.IndexNumber != nil {
		logins = append(logins, *u.IndexNumber)
	}
	return s.insertUser(u, password, logins)
}

func (s *UserPostgresStorage) insertUser(u *model.User, password string, logins []string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, &models.User{})
		if err != nil {
			return err
		}
		record := toUserRecord(u)
		record.Position = pos
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		for _, login := range logins {
			cred := models.Credential{Login: login, UserID: u.ID, PasswordHash: string(hashedPassword)}
			if err := tx.Create(&cred).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// AddPending добавляет номера зачеток, ожидающие установки пароля
func (s *UserPostgresStorage) AddPending(indexNumbers ...string) error {
	for _, idx := range indexNumbers {
		if err := DB.Where(models.PendingIndex{IndexNumber: idx}).FirstOrCreate(&models.PendingIndex{}).Error; err != nil {
			return fmt.Errorf("could not add pending index number: %w", err)
		}
	}
	return nil
}

func (s *UserPostgresStorage) LoginUser(credential, password string) (*model.User, error) {
	var record models.User
	key := credential
	var err error
	if user.IsIndexNumber(credential) {
		err = DB.Where("index_number = ?", credential).First(&record).Error
	} else {
		key = user.NormalizeEmail(credential)
		err = DB.Where("email = ?", key).First(&record).Error
	}
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %s: %w", credential, access.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("could not find user: %w", err)
	}

	var cred models.Credential
	err = DB.Where("login = ? AND user_id = ?", key, record.ID).First(&cred).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %s has no password: %w", credential, access.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("could not find credential: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("password for %s is incorrect: %w", credential, access.ErrInvalidCredentials)
	}

	return toUser(&record), nil
}

func (s *UserPostgresStorage) SetNewPassword(indexNumber, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", access.ErrValidation)
	}

	var existing models.User
	err := DB.Where("index_number = ?", indexNumber).First(&existing).Error
	if err == nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		cred := models.Credential{Login: indexNumber, UserID: existing.ID, PasswordHash: string(hashedPassword)}
		if err := DB.Save(&cred).Error; err != nil {
			return fmt.Errorf("could not update password: %w", err)
		}
		return nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("could not find user: %w", err)
	}

	var pending models.PendingIndex
	err = DB.Where("index_number = ?", indexNumber).First(&pending).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("index number %s: %w", indexNumber, access.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not find pending index number: %w", err)
	}

	u := user.PendingStudent(uuid.NewString(), indexNumber)
	u.CreatedAt = time.Now()
	// новый студент входит только по номеру зачетки
	if err := s.insertUser(u, newPassword, []string{indexNumber}); err != nil {
		return err
	}

	if err := DB.Where("index_number = ?", indexNumber).Delete(&models.PendingIndex{}).Error; err != nil {
		return fmt.Errorf("could not remove pending index number: %w", err)
	}
	return nil
}

func (s *UserPostgresStorage) GetUserByID(id string) (*model.User, error) {
	var record models.User
	err := DB.Where("id = ?", id).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %s: %w", id, access.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return toUser(&record), nil
}

func (s *UserPostgresStorage) GetAllUsers() ([]*model.User, error) {
	var records []models.User
	if err := DB.Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}

	users := make([]*model.User, 0, len(records))
	for i := range records {
		users = append(users, toUser(&records[i]))
	}
	return users, nil
}

func (s *UserPostgresStorage) PendingIndexNumbers() ([]string, error) {
	var records []models.PendingIndex
	if err := DB.Order("index_number").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get pending index numbers: %w", err)
	}

	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.IndexNumber)
	}
	return out, nil
}

func (s *UserPostgresStorage) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	var record models.User
	err = DB.Where("id = ?", userID).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %s: %w", userID, access.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	u := toUser(&record)
	if err := user.ApplyProfilePatch(u, patch); err != nil {
		return nil, err
	}

	updated := toUserRecord(u)
	updated.Position = record.Position
	if err := DB.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("could not update profile: %w", err)
	}
	return u, nil
}

func toUserRecord(u *model.User) models.User {
	return models.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Interests:   encodeList(u.Interests),
		Following:   encodeList(u.Following),
		Followers:   encodeList(u.Followers),
		IndexNumber: u.IndexNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func toUser(r *models.User) *model.User {
	return &model.User{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Role:        model.Role(r.Role),
		Avatar:      r.Avatar,
		Bio:         r.Bio,
		CreatedAt:   r.CreatedAt,
		Interests:   decodeList(r.Interests),
		Following:   decodeList(r.Following),
		Followers:   decodeList(r.Followers),
		IndexNumber: r.IndexNumber,
	}
}
