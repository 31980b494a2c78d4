package domain

import "errors"

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrCredentialsInvalid    = errors.New("invalid email or password")
	ErrSelfSubscribe         = errors.New("cannot subscribe to yourself")
	ErrSelfUnsubscribe       = errors.New("cannot unsubscribe from yourself")
	ErrAlreadySubscribed     = errors.New("already subscribed to this author")
	ErrNotSubscribed         = errors.New("not subscribed to this author")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	// UserResponse carries the viewer-relative subscription flag: false when
	// the viewer is anonymous or is the user themselves.
	UserResponse struct {
		Email        string `json:"email"`
		ID           string `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	SubscriptionResponse struct {
		ID           string               `json:"id"`
		Email        string               `json:"email"`
		Username     string               `json:"username"`
		FirstName    string               `json:"first_name"`
		LastName     string               `json:"last_name"`
		IsSubscribed bool                 `json:"is_subscribed"`
		Recipes      []RecipeInfoResponse `json:"recipes"`
		RecipesCount int                  `json:"recipes_count"`
	}
)
