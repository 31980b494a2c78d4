package ingredient

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientService interface {
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error) {
	// Names repeat across units; only the exact (name, unit) pair is rejected.
	exists, err := s.ingredientRepository.ExistsByNameAndUnit(ctx, req.Name, req.MeasurementUnit)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	if exists {
		return domain.IngredientResponse{}, domain.ErrIngredientAlreadyExists
	}

	ingredient := &entities.Ingredient{
		ID:              uuid.New(),
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	}
	if err := s.ingredientRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}

	return toIngredientResponse(ingredient), nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.IngredientResponse{}, domain.ErrIngredientNotFound
	}

	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}

	return toIngredientResponse(ingredient), nil
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	result := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		result = append(result, toIngredientResponse(ingredient))
	}
	return result, nil
}

func toIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}
