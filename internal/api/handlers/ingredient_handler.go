package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/ingredient"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		CreateIngredient(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredientByID(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
		validator         *validator.Validate
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService, validator *validator.Validate) IngredientHandler {
	return &ingredientHandler{
		ingredientService: ingredientService,
		validator:         validator,
	}
}

func (h *ingredientHandler) CreateIngredient(c *fiber.Ctx) error {
	req := new(domain.CreateIngredientRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveIngredient, err)
	}

	res, err := h.ingredientService.CreateIngredient(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveIngredient, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveIngredient)
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.Context(), c.Query("name", ""))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredientByID(c *fiber.Ctx) error {
	id := c.Params("id")

	res, err := h.ingredientService.GetIngredientByID(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
