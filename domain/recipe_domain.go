package domain

import "errors"

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessFavorite        = "recipe added to favorites"
	MessageSuccessUnfavorite      = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"
	MessageSuccessShoppingList    = "shopping list built successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavorite        = "failed to update favorites"
	MessageFailedCart            = "failed to update shopping cart"
	MessageFailedShoppingList    = "failed to build shopping list"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNotRecipeAuthor       = errors.New("only the author can modify this recipe")
	ErrAlreadyFavorited      = errors.New("recipe already in favorites")
	ErrNotFavorited          = errors.New("recipe not in favorites")
	ErrAlreadyInShoppingCart = errors.New("recipe already in shopping cart")
	ErrNotInShoppingCart     = errors.New("recipe not in shopping cart")
	ErrShoppingCartEmpty     = errors.New("shopping cart is empty")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Tags        []string                  `json:"tags" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,dive"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Image       string                    `json:"image"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	// UpdateRecipeRequest replaces the whole aggregate: the tag set and the
	// ingredient lines are cleared and rebuilt from this payload. An empty
	// image keeps the stored one.
	UpdateRecipeRequest struct {
		Tags        []string                  `json:"tags" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,dive"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Image       string                    `json:"image"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	// RecipeInfoResponse is the compact preview returned by the relation
	// toggles and nested into subscription listings.
	RecipeInfoResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		Author           string
		Tags             []string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	ShoppingListResponse struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
)
