package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, userID, recipeID string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, userID, recipeID string) error
		GetRecipeByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]domain.RecipeResponse, int64, error)

		Favorite(ctx context.Context, userID, recipeID string) (domain.RecipeInfoResponse, error)
		Unfavorite(ctx context.Context, userID, recipeID string) error
		AddToShoppingCart(ctx context.Context, userID, recipeID string) (domain.RecipeInfoResponse, error)
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error
		DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListResponse, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		tagRepository        tag.TagRepository
		userRepository       user.UserRepository
		awsS3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	tagRepository tag.TagRepository,
	userRepository user.UserRepository,
	awsS3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		tagRepository:        tagRepository,
		userRepository:       userRepository,
		awsS3:                awsS3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	lines, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.NewFieldError("cooking_time", "cooking time must be at least 1 minute")
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = s.awsS3.UploadBase64Image(ctx, "recipes", req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, lines, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error) {
	stored, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if stored.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	lines, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.NewFieldError("cooking_time", "cooking time must be at least 1 minute")
	}

	imageURL := stored.ImageURL
	if req.Image != "" {
		imageURL, err = s.awsS3.UploadBase64Image(ctx, "recipes", req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		ID:          stored.ID,
		AuthorID:    stored.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, lines, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	stored, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if stored.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipeByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, viewerID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.toRecipeResponse(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) Favorite(ctx context.Context, userID, recipeID string) (domain.RecipeInfoResponse, error) {
	recipe, userUUID, err := s.getToggleTarget(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeInfoResponse{}, err
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeInfoResponse{}, err
	}
	if exists {
		return domain.RecipeInfoResponse{}, domain.ErrAlreadyFavorited
	}

	if err := s.recipeRepository.AddFavorite(ctx, userUUID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeInfoResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeInfoResponse{}, err
	}

	return toRecipeInfoResponse(recipe), nil
}

func (s *recipeService) Unfavorite(ctx context.Context, userID, recipeID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	deleted, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, userID, recipeID string) (domain.RecipeInfoResponse, error) {
	recipe, userUUID, err := s.getToggleTarget(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeInfoResponse{}, err
	}

	exists, err := s.recipeRepository.IsInCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeInfoResponse{}, err
	}
	if exists {
		return domain.RecipeInfoResponse{}, domain.ErrAlreadyInShoppingCart
	}

	if err := s.recipeRepository.AddToCart(ctx, userUUID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeInfoResponse{}, domain.ErrAlreadyInShoppingCart
		}
		return domain.RecipeInfoResponse{}, err
	}

	return toRecipeInfoResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	deleted, err := s.recipeRepository.RemoveFromCart(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotInShoppingCart
	}
	return nil
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListResponse, error) {
	count, err := s.recipeRepository.CountCartEntries(ctx, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	if count == 0 {
		return domain.ShoppingListResponse{}, domain.ErrShoppingCartEmpty
	}

	lines, err := s.recipeRepository.GetCartIngredientLines(ctx, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	// Amounts are summed per ingredient name; the unit of the first occurrence
	// wins and the first-seen order is preserved.
	type aggregate struct {
		unit   string
		amount int
	}
	totals := make(map[string]*aggregate)
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Ingredient == nil {
			continue
		}
		name := line.Ingredient.Name
		if agg, ok := totals[name]; ok {
			agg.amount += line.Amount
			continue
		}
		totals[name] = &aggregate{unit: line.Ingredient.MeasurementUnit, amount: line.Amount}
		order = append(order, name)
	}

	rows := make([]string, 0, len(order))
	for _, name := range order {
		agg := totals[name]
		rows = append(rows, fmt.Sprintf("%s — %d%s", name, agg.amount, agg.unit))
	}

	return domain.ShoppingListResponse{
		Filename: "Shopping list " + time.Now().Format("2006-01-02") + ".txt",
		Content:  strings.Join(rows, "\n"),
	}, nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) getToggleTarget(ctx context.Context, userID, recipeID string) (*entities.Recipe, uuid.UUID, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrParseUUID
	}
	return recipe, userUUID, nil
}

// resolveIngredients validates the ingredient lines before anything touches the
// database: the list must be non-empty, every referenced ingredient must exist
// and no ingredient may appear twice.
func (s *recipeService) resolveIngredients(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return nil, domain.NewFieldError("ingredients", "at least one ingredient is required")
	}

	seen := make(map[string]bool, len(reqs))
	lines := make([]entities.RecipeIngredient, 0, len(reqs))
	for _, req := range reqs {
		if req.Amount < 1 {
			return nil, domain.NewFieldError("ingredients", "amount must be at least 1")
		}
		if seen[req.ID] {
			return nil, domain.NewFieldError("ingredients", "duplicate ingredient in recipe")
		}
		seen[req.ID] = true

		ing, err := s.ingredientRepository.GetIngredientByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrIngredientNotFound
			}
			return nil, err
		}

		lines = append(lines, entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ing.ID,
			Amount:       req.Amount,
			CreatedAt:    time.Now(),
		})
	}
	return lines, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]entities.Tag, error) {
	if len(ids) == 0 {
		return nil, domain.NewFieldError("tags", "at least one tag is required")
	}

	seen := make(map[string]bool, len(ids))
	tags := make([]entities.Tag, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, domain.NewFieldError("tags", "duplicate tag in recipe")
		}
		seen[id] = true

		if _, err := uuid.Parse(id); err != nil {
			return nil, domain.ErrTagNotFound
		}
		stored, err := s.tagRepository.GetTagByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrTagNotFound
			}
			return nil, err
		}
		tags = append(tags, *stored)
	}
	return tags, nil
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Slug:  t.Slug,
			Color: t.Color,
		})
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		res := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			res.Name = line.Ingredient.Name
			res.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, res)
	}

	author := domain.UserResponse{}
	if recipe.Author != nil {
		author = domain.UserResponse{
			Email:     recipe.Author.Email,
			ID:        recipe.Author.ID.String(),
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
	}

	isFavorited := false
	isInCart := false
	if viewerID != "" {
		var err error
		if recipe.Author != nil && viewerID != recipe.AuthorID.String() {
			author.IsSubscribed, err = s.userRepository.IsFollowing(ctx, viewerID, recipe.AuthorID.String())
			if err != nil {
				return domain.RecipeResponse{}, err
			}
		}
		isFavorited, err = s.recipeRepository.IsFavorited(ctx, viewerID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		isInCart, err = s.recipeRepository.IsInCart(ctx, viewerID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func toRecipeInfoResponse(recipe *entities.Recipe) domain.RecipeInfoResponse {
	return domain.RecipeInfoResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
