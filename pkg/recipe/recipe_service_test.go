package recipe

import (
	"context"
	"strings"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeS3 struct{}

func (f *fakeS3) UploadBase64Image(_ context.Context, folder string, _ string) (string, error) {
	return "https://cdn.test/" + folder + "/image.png", nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	))
	return db
}

func newTestService(t *testing.T) (RecipeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewRecipeService(
		NewRecipeRepository(db),
		ingredient.NewIngredientRepository(db),
		tag.NewTagRepository(db),
		user.NewUserRepository(db),
		&fakeS3{},
	)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: "hashed",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug, color string) *entities.Tag {
	t.Helper()
	tg := &entities.Tag{ID: uuid.New(), Name: name, Slug: slug, Color: color}
	require.NoError(t, db.Create(tg).Error)
	return tg
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func TestCreateRecipe(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")
	flour := createTestIngredient(t, db, "Flour", "g")

	res, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags: []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: salt.ID.String(), Amount: 5},
			{ID: flour.ID.String(), Amount: 200},
		},
		Name:        "Pancakes",
		Image:       "data:image/png;base64,aGVsbG8=",
		Text:        "Mix and fry.",
		CookingTime: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", res.Name)
	assert.Equal(t, 20, res.CookingTime)
	assert.Equal(t, "https://cdn.test/recipes/image.png", res.Image)
	assert.Equal(t, author.Username, res.Author.Username)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)

	require.Len(t, res.Tags, 1)
	assert.Equal(t, "breakfast", res.Tags[0].Slug)

	require.Len(t, res.Ingredients, 2)
	byName := make(map[string]domain.RecipeIngredientResponse, 2)
	for _, line := range res.Ingredients {
		byName[line.Name] = line
	}
	assert.Equal(t, "g", byName["Salt"].MeasurementUnit)
	assert.Equal(t, 5, byName["Salt"].Amount)
	assert.Equal(t, 200, byName["Flour"].Amount)
}

func TestCreateRecipeValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")

	base := domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 10,
	}

	t.Run("empty ingredients", func(t *testing.T) {
		req := base
		req.Ingredients = nil
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "ingredients", fieldErr.Field)
	})

	t.Run("duplicate ingredient", func(t *testing.T) {
		req := base
		req.Ingredients = []domain.RecipeIngredientRequest{
			{ID: salt.ID.String(), Amount: 5},
			{ID: salt.ID.String(), Amount: 3},
		}
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "ingredients", fieldErr.Field)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		req := base
		req.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 5}}
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	})

	t.Run("empty tags", func(t *testing.T) {
		req := base
		req.Tags = nil
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "tags", fieldErr.Field)
	})

	t.Run("duplicate tag", func(t *testing.T) {
		req := base
		req.Tags = []string{breakfast.ID.String(), breakfast.ID.String()}
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "tags", fieldErr.Field)
	})

	t.Run("unknown tag", func(t *testing.T) {
		req := base
		req.Tags = []string{uuid.NewString()}
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)
		assert.ErrorIs(t, err, domain.ErrTagNotFound)
	})

	t.Run("cooking time below one", func(t *testing.T) {
		req := base
		req.CookingTime = 0
		_, err := svc.CreateRecipe(ctx, author.ID.String(), req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "cooking_time", fieldErr.Field)
	})

	// Nothing may be persisted by the rejected attempts.
	var recipeCount, lineCount int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&recipeCount).Error)
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lineCount).Error)
	assert.Zero(t, recipeCount)
	assert.Zero(t, lineCount)
}

func TestUpdateRecipeReplacesAggregate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	lunch := createTestTag(t, db, "Lunch", "lunch", entities.TagColorGreen)
	dinner := createTestTag(t, db, "Dinner", "dinner", entities.TagColorPurple)
	salt := createTestIngredient(t, db, "Salt", "g")
	rice := createTestIngredient(t, db, "Rice", "g")

	created, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String(), lunch.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Porridge",
		Text:        "Cook.",
		CookingTime: 15,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, author.ID.String(), created.ID, domain.UpdateRecipeRequest{
		Tags:        []string{dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: rice.ID.String(), Amount: 300}},
		Name:        "Risotto",
		Text:        "Stir slowly.",
		CookingTime: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, "Risotto", updated.Name)
	assert.Equal(t, 40, updated.CookingTime)

	// The old tag set and ingredient lines are gone, not merged.
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Rice", updated.Ingredients[0].Name)

	var lineCount int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lineCount).Error)
	assert.EqualValues(t, 1, lineCount)
}

func TestUpdateRecipeNotAuthor(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	other := createTestUser(t, db, "other@test.com", "other")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")

	created, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(ctx, other.ID.String(), created.ID, domain.UpdateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Stolen soup",
		Text:        "Boil.",
		CookingTime: 10,
	})
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	err = svc.DeleteRecipe(ctx, other.ID.String(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)
}

func TestFavoriteToggle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	viewer := createTestUser(t, db, "viewer@test.com", "viewer")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")

	created, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	info, err := svc.Favorite(ctx, viewer.ID.String(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, info.ID)
	assert.Equal(t, "Soup", info.Name)

	_, err = svc.Favorite(ctx, viewer.ID.String(), created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	detail, err := svc.GetRecipeByID(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)
	assert.True(t, detail.IsFavorited)

	require.NoError(t, svc.Unfavorite(ctx, viewer.ID.String(), created.ID))
	assert.ErrorIs(t, svc.Unfavorite(ctx, viewer.ID.String(), created.ID), domain.ErrNotFavorited)

	_, err = svc.Favorite(ctx, viewer.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestShoppingCartToggle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")

	created, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	_, err = svc.AddToShoppingCart(ctx, author.ID.String(), created.ID)
	require.NoError(t, err)

	_, err = svc.AddToShoppingCart(ctx, author.ID.String(), created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInShoppingCart)

	var count int64
	require.NoError(t, db.Model(&entities.ShoppingCart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.RemoveFromShoppingCart(ctx, author.ID.String(), created.ID))
	assert.ErrorIs(t, svc.RemoveFromShoppingCart(ctx, author.ID.String(), created.ID), domain.ErrNotInShoppingCart)
}

func TestDownloadShoppingCart(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")
	egg := createTestIngredient(t, db, "Egg", "pcs")

	first, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags: []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: salt.ID.String(), Amount: 5},
			{ID: egg.ID.String(), Amount: 2},
		},
		Name:        "Omelette",
		Text:        "Whisk and fry.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	second, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 3}},
		Name:        "Broth",
		Text:        "Simmer.",
		CookingTime: 60,
	})
	require.NoError(t, err)

	_, err = svc.DownloadShoppingCart(ctx, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)

	_, err = svc.AddToShoppingCart(ctx, author.ID.String(), first.ID)
	require.NoError(t, err)
	_, err = svc.AddToShoppingCart(ctx, author.ID.String(), second.ID)
	require.NoError(t, err)

	list, err := svc.DownloadShoppingCart(ctx, author.ID.String())
	require.NoError(t, err)

	// Repeated ingredients collapse into a single summed line.
	assert.Equal(t, 1, strings.Count(list.Content, "Salt — 8g"))
	assert.Contains(t, list.Content, "Egg — 2pcs")
	assert.Len(t, strings.Split(list.Content, "\n"), 2)

	assert.True(t, strings.HasPrefix(list.Filename, "Shopping list "))
	assert.True(t, strings.HasSuffix(list.Filename, ".txt"))
}

func TestDeleteRecipeCascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	viewer := createTestUser(t, db, "viewer@test.com", "viewer")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	salt := createTestIngredient(t, db, "Salt", "g")

	created, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	_, err = svc.Favorite(ctx, viewer.ID.String(), created.ID)
	require.NoError(t, err)
	_, err = svc.AddToShoppingCart(ctx, viewer.ID.String(), created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, author.ID.String(), created.ID))

	_, err = svc.GetRecipeByID(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	var lines, favorites, cartEntries int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lines).Error)
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&favorites).Error)
	require.NoError(t, db.Model(&entities.ShoppingCart{}).Count(&cartEntries).Error)
	assert.Zero(t, lines)
	assert.Zero(t, favorites)
	assert.Zero(t, cartEntries)

	// The shared catalogs are untouched by the cascade.
	var tags, ingredients int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&ingredients).Error)
	assert.EqualValues(t, 1, tags)
	assert.EqualValues(t, 1, ingredients)
}

func TestGetRecipesFilters(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@test.com", "author")
	other := createTestUser(t, db, "other@test.com", "other")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast", entities.TagColorOrange)
	dinner := createTestTag(t, db, "Dinner", "dinner", entities.TagColorPurple)
	salt := createTestIngredient(t, db, "Salt", "g")

	morning, err := svc.CreateRecipe(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 1}},
		Name:        "Porridge",
		Text:        "Cook.",
		CookingTime: 10,
	})
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, other.ID.String(), domain.CreateRecipeRequest{
		Tags:        []string{dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 1}},
		Name:        "Stew",
		Text:        "Simmer.",
		CookingTime: 90,
	})
	require.NoError(t, err)

	all, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, all, 2)

	byTag, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"breakfast"}}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Porridge", byTag[0].Name)

	byAuthor, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{Author: other.ID.String()}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Stew", byAuthor[0].Name)

	_, err = svc.Favorite(ctx, author.ID.String(), morning.ID)
	require.NoError(t, err)

	favorited, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, author.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, favorited, 1)
	assert.Equal(t, "Porridge", favorited[0].Name)
	assert.True(t, favorited[0].IsFavorited)
}
