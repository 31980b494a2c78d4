package ingredient

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) IngredientService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.Ingredient{}))
	return NewIngredientService(NewIngredientRepository(db))
}

func TestCreateIngredient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Salt",
		MeasurementUnit: "g",
	})
	require.NoError(t, err)
	assert.Equal(t, "Salt", res.Name)
	assert.Equal(t, "g", res.MeasurementUnit)

	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Salt",
		MeasurementUnit: "g",
	})
	assert.ErrorIs(t, err, domain.ErrIngredientAlreadyExists)

	// The same name under another unit is a distinct catalog entry.
	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Salt",
		MeasurementUnit: "tbsp",
	})
	require.NoError(t, err)
}

func TestGetIngredientsPrefixSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Parsley", "Parmesan", "Pepper", "Salt"} {
		_, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
			Name:            name,
			MeasurementUnit: "g",
		})
		require.NoError(t, err)
	}

	res, err := svc.GetIngredients(ctx, "Par")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Parmesan", res[0].Name)
	assert.Equal(t, "Parsley", res[1].Name)

	all, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetIngredientByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Flour",
		MeasurementUnit: "g",
	})
	require.NoError(t, err)

	res, err := svc.GetIngredientByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flour", res.Name)

	_, err = svc.GetIngredientByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = svc.GetIngredientByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
