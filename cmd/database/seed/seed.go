package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"

	"gorm.io/gorm"
)

type ingredientSeed struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

var defaultTags = []domain.CreateTagRequest{
	{Name: "Breakfast", Slug: "breakfast", Color: entities.TagColorOrange},
	{Name: "Lunch", Slug: "lunch", Color: entities.TagColorGreen},
	{Name: "Dinner", Slug: "dinner", Color: entities.TagColorPurple},
}

// Seed loads the default tag palette and the ingredient catalog from
// data/ingredients.json. Rerunning it skips everything already present.
func Seed(db *gorm.DB) error {
	ctx := context.Background()

	tagService := tag.NewTagService(tag.NewTagRepository(db))
	for _, req := range defaultTags {
		if _, err := tagService.CreateTag(ctx, req); err != nil {
			if errors.Is(err, domain.ErrTagAlreadyExists) {
				continue
			}
			return fmt.Errorf("failed to seed tag %s: %w", req.Name, err)
		}
	}

	file, err := os.ReadFile("data/ingredients.json")
	if err != nil {
		return fmt.Errorf("failed to read ingredients file: %w", err)
	}
	var seeds []ingredientSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		return fmt.Errorf("failed to parse ingredients file: %w", err)
	}

	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	skipped := 0
	for _, seed := range seeds {
		_, err := ingredientService.CreateIngredient(ctx, domain.CreateIngredientRequest{
			Name:            seed.Name,
			MeasurementUnit: seed.MeasurementUnit,
		})
		if err != nil {
			if errors.Is(err, domain.ErrIngredientAlreadyExists) {
				skipped++
				continue
			}
			return fmt.Errorf("failed to seed ingredient %s: %w", seed.Name, err)
		}
	}

	log.Printf("seeded %d ingredients (%d already present)", len(seeds)-skipped, skipped)
	return nil
}
