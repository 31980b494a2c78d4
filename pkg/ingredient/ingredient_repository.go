package ingredient

import (
	"context"

	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		ExistsByNameAndUnit(ctx context.Context, name, unit string) (bool, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	query := r.db.WithContext(ctx).Model(&entities.Ingredient{})
	if namePrefix != "" {
		query = query.Where("name LIKE ?", namePrefix+"%")
	}

	if err := query.Order("name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) ExistsByNameAndUnit(ctx context.Context, name, unit string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
