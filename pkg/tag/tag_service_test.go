package tag

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

func newTestService(t *testing.T) TagService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.Tag{}))
	return NewTagService(NewTagRepository(db))
}

func TestCreateTag(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateTag(ctx, domain.CreateTagRequest{
		Name:  "Breakfast",
		Slug:  "breakfast",
		Color: entities.TagColorOrange,
	})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", res.Name)
	assert.Equal(t, entities.TagColorOrange, res.Color)
	assert.NotEmpty(t, res.ID)
}

func TestCreateTagOutsidePalette(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{
		Name:  "Brunch",
		Slug:  "brunch",
		Color: "#FFFFFF",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTagColor)
}

func TestCreateTagDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, domain.CreateTagRequest{
		Name:  "Breakfast",
		Slug:  "breakfast",
		Color: entities.TagColorOrange,
	})
	require.NoError(t, err)

	// Each of name, slug and color must be unique on its own.
	cases := []domain.CreateTagRequest{
		{Name: "Breakfast", Slug: "morning", Color: entities.TagColorGreen},
		{Name: "Morning", Slug: "breakfast", Color: entities.TagColorGreen},
		{Name: "Morning", Slug: "morning", Color: entities.TagColorOrange},
	}
	for _, req := range cases {
		_, err := svc.CreateTag(ctx, req)
		assert.ErrorIs(t, err, domain.ErrTagAlreadyExists)
	}
}

func TestGetTagByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, domain.CreateTagRequest{
		Name:  "Dinner",
		Slug:  "dinner",
		Color: entities.TagColorPurple,
	})
	require.NoError(t, err)

	res, err := svc.GetTagByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", res.Slug)

	_, err = svc.GetTagByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	_, err = svc.GetTagByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
