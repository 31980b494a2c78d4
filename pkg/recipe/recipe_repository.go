package recipe

import (
	"context"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		// CreateRecipe persists the recipe row, its ingredient lines and its
		// tag associations in a single transaction.
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error
		// UpdateRecipe replaces the aggregate in full: lines are deleted and
		// recreated, the tag set is cleared and re-set.
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id string) error

		AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error)
		IsFavorited(ctx context.Context, userID, recipeID string) (bool, error)

		AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error
		RemoveFromCart(ctx context.Context, userID, recipeID string) (int64, error)
		IsInCart(ctx context.Context, userID, recipeID string) (bool, error)

		CountCartEntries(ctx context.Context, userID string) (int64, error)
		GetCartIngredientLines(ctx context.Context, userID string) ([]*entities.RecipeIngredient, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image_url":    recipe.ImageURL,
				"cooking_time": recipe.CookingTime,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.created_at")
		}).
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.Author != "" {
		query = query.Where("author_id = ?", filter.Author)
	}
	if len(filter.Tags) > 0 {
		query = query.Where("id IN (?)", r.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags))
	}
	if filter.IsFavorited && viewerID != "" {
		query = query.Where("id IN (?)", r.db.
			Table("favorites").
			Select("recipe_id").
			Where("user_id = ?", viewerID))
	}
	if filter.IsInShoppingCart && viewerID != "" {
		query = query.Where("id IN (?)", r.db.
			Table("shopping_carts").
			Select("recipe_id").
			Where("user_id = ?", viewerID))
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Keep the cleanup explicit so it holds on backends without enforced
		// FK cascades as well.
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Recipe{}, "id = ?", id).Error
	})
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	favorite := &entities.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	entry := &entities.ShoppingCart{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *recipeRepository) RemoveFromCart(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsInCart(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CountCartEntries(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetCartIngredientLines returns every ingredient line of every recipe in the
// user's cart, in the order the recipes were added.
func (r *recipeRepository) GetCartIngredientLines(ctx context.Context, userID string) ([]*entities.RecipeIngredient, error) {
	var lines []*entities.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Preload("Ingredient").
		Order("shopping_carts.created_at, recipe_ingredients.created_at").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
