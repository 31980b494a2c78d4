package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)

		Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.RegisterResponse{}, err
	}

	// Best effort; registration succeeds even when the mail cannot go out.
	body := fmt.Sprintf("<p>Hi %s, welcome to Foodgram! Share your first recipe today.</p>", user.FirstName)
	if err := mailing.SendMail(user.Email, "Welcome to Foodgram", body); err != nil {
		log.Printf("failed to send welcome email to %s: %v", user.Email, err)
	}

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	return s.GetUser(ctx, userID, userID)
}

func (s *userService) GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.UserResponse{}, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != id {
		isSubscribed, err = s.userRepository.IsFollowing(ctx, viewerID, id)
		if err != nil {
			return domain.UserResponse{}, err
		}
	}

	return toUserResponse(user, isSubscribed), nil
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	if userID == authorID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscribe
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrUserNotFound
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	exists, err := s.userRepository.IsFollowing(ctx, userID, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if exists {
		return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
	}

	if err := s.userRepository.CreateFollow(ctx, userUUID, authorUUID); err != nil {
		// A concurrent duplicate lost the race against the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscriptionResponse(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return domain.ErrSelfUnsubscribe
	}

	if _, err := uuid.Parse(authorID); err != nil {
		return domain.ErrUserNotFound
	}
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	deleted, err := s.userRepository.DeleteFollow(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	follows, count, err := s.userRepository.GetFollows(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(follows))
	for _, follow := range follows {
		if follow.Author == nil {
			continue
		}
		sub, err := s.toSubscriptionResponse(ctx, follow.Author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, sub)
	}

	return result, count, nil
}

func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.userRepository.GetAuthorRecipes(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	recipesCount, err := s.userRepository.CountAuthorRecipes(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	previews := make([]domain.RecipeInfoResponse, 0, len(recipes))
	for _, recipe := range recipes {
		previews = append(previews, domain.RecipeInfoResponse{
			ID:          recipe.ID.String(),
			Name:        recipe.Name,
			Image:       recipe.ImageURL,
			CookingTime: recipe.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		ID:           author.ID.String(),
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      previews,
		RecipesCount: int(recipesCount),
	}, nil
}

func toUserResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		Email:        user.Email,
		ID:           user.ID.String(),
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
