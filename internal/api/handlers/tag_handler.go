package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/tag"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TagHandler interface {
		CreateTag(c *fiber.Ctx) error
		GetTags(c *fiber.Ctx) error
		GetTagByID(c *fiber.Ctx) error
	}

	tagHandler struct {
		tagService tag.TagService
		validator  *validator.Validate
	}
)

func NewTagHandler(tagService tag.TagService, validator *validator.Validate) TagHandler {
	return &tagHandler{
		tagService: tagService,
		validator:  validator,
	}
}

func (h *tagHandler) CreateTag(c *fiber.Ctx) error {
	req := new(domain.CreateTagRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveTag, err)
	}

	res, err := h.tagService.CreateTag(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveTag, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveTag)
}

func (h *tagHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTags, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *tagHandler) GetTagByID(c *fiber.Ctx) error {
	id := c.Params("id")

	res, err := h.tagService.GetTagByID(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetTags, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}
