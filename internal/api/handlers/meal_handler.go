package handlers

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/internal/api/presenters"
	"Meal-Tracker/pkg/meal"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"strconv"
)

type (
	MealHandler interface {
		AddMealEntry(c *fiber.Ctx) error
		UpdateMealEntry(c *fiber.Ctx) error
		DeleteMealEntry(c *fiber.Ctx) error
		GetMealEntries(c *fiber.Ctx) error
		GetMealEntryDetails(c *fiber.Ctx) error
		UploadMealImage(c *fiber.Ctx) error
	}

	mealHandler struct {
		mealService meal.MealService
		validator   *validator.Validate
	}
)

func NewMealHandler(mealService meal.MealService, validator *validator.Validate) MealHandler {
	return &mealHandler{
		mealService: mealService,
		validator:   validator,
	}
}

const maxMealPageLimit = 100

// mealErrorStatus hides entries of other users behind a plain 404.
func mealErrorStatus(err error) int {
	if errors.Is(err, domain.ErrMealEntryNotFound) || errors.Is(err, domain.ErrUnauthorizedAccess) {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

func (h *mealHandler) AddMealEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddMealEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMealEntry, err)
	}

	res, err := h.mealService.AddMealEntry(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMealEntry, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddMealEntry)
}

func (h *mealHandler) UpdateMealEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")
	req := new(domain.UpdateMealEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMealEntry, err)
	}

	res, err := h.mealService.UpdateMealEntry(c.Context(), entryID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, mealErrorStatus(err), domain.MessageFailedUpdateMealEntry, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMealEntry)
}

func (h *mealHandler) DeleteMealEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")

	if err := h.mealService.DeleteMealEntry(c.Context(), entryID, userID); err != nil {
		return presenters.ErrorResponse(c, mealErrorStatus(err), domain.MessageFailedDeleteMealEntry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMealEntry)
}

func (h *mealHandler) GetMealEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	category := c.Query("category", "all")

	// Parse pagination parameters
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	limit = min(limit, maxMealPageLimit)

	items, count, err := h.mealService.GetMealEntries(c.Context(), userID, category, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMealEntries, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetMealEntries)
}

func (h *mealHandler) GetMealEntryDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")

	item, err := h.mealService.GetMealEntryByID(c.Context(), entryID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, mealErrorStatus(err), domain.MessageFailedGetMealEntries, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetMealEntries)
}

func (h *mealHandler) UploadMealImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadMealImageRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadMealImage, err)
	}

	res, err := h.mealService.UploadMealImage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadMealImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadMealImage)
}
