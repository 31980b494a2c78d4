package user

import (
	"context"
	"time"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

		CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error
		DeleteFollow(ctx context.Context, userID, authorID string) (int64, error)
		IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
		GetFollows(ctx context.Context, userID string, page, limit int) ([]*entities.Follow, int64, error)

		GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountAuthorRecipes(ctx context.Context, authorID string) (int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateFollow inserts the relation row; the composite unique index decides
// the winner under concurrent duplicate requests and the loser surfaces
// gorm.ErrDuplicatedKey.
func (r *userRepository) CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	follow := &entities.Follow{
		ID:        uuid.New(),
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *userRepository) DeleteFollow(ctx context.Context, userID, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Follow{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetFollows(ctx context.Context, userID string, page, limit int) ([]*entities.Follow, int64, error) {
	var follows []*entities.Follow
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&follows).Error; err != nil {
		return nil, 0, err
	}

	return follows, count, nil
}

func (r *userRepository) GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe

	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *userRepository) CountAuthorRecipes(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
