package repository

import (
	"context"

	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for User.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	List(ctx context.Context, includeInactive bool) ([]model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) List(ctx context.Context, includeInactive bool) ([]model.User, error) {
	q := r.db.WithContext(ctx).Order("username asc")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var list []model.User
	err := q.Find(&list).Error
	return list, err
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username = ? AND active = true", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", active).Error
}
