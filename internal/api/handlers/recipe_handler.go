package handlers

import (
	"fmt"
	"strconv"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error

		Favorite(c *fiber.Ctx) error
		Unfavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedSaveRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), userID, recipeID, *req)
	if err != nil {
		if err == domain.ErrNotRecipeAuthor {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedSaveRecipe, err)
		}
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedSaveRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSaveRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.recipeService.DeleteRecipe(c.Context(), userID, recipeID); err != nil {
		if err == domain.ErrNotRecipeAuthor {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedDeleteRecipe, err)
		}
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeService.GetRecipeByID(c.Context(), recipeID, viewerID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	viewer := viewerID(c)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	filter := domain.RecipeFilter{
		Author:           c.Query("author", ""),
		IsFavorited:      c.QueryBool("is_favorited", false),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.Tags = append(filter.Tags, string(slug))
	}

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), filter, viewer, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Favorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.recipeService.Favorite(c.Context(), userID, recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessFavorite)
}

func (h *recipeHandler) Unfavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.recipeService.Unfavorite(c.Context(), userID, recipeID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedFavorite, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnfavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.recipeService.AddToShoppingCart(c.Context(), userID, recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.recipeService.RemoveFromShoppingCart(c.Context(), userID, recipeID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFromCart)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.DownloadShoppingCart(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	return c.SendString(res.Content)
}
