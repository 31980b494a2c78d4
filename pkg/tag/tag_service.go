package tag

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error) {
	if !entities.IsTagColor(req.Color) {
		return domain.TagResponse{}, domain.ErrInvalidTagColor
	}

	exists, err := s.tagRepository.ExistsByNameSlugOrColor(ctx, req.Name, req.Slug, req.Color)
	if err != nil {
		return domain.TagResponse{}, err
	}
	if exists {
		return domain.TagResponse{}, domain.ErrTagAlreadyExists
	}

	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.TagResponse{}, domain.ErrTagAlreadyExists
		}
		return domain.TagResponse{}, err
	}

	return toTagResponse(tag), nil
}

func (s *tagService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.TagResponse{}, domain.ErrTagNotFound
	}

	tag, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}

	return toTagResponse(tag), nil
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, toTagResponse(tag))
	}
	return result, nil
}

func toTagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
