package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
	CategorySnack     = "snack"
)

var (
	MessageSuccessAddMealEntry    = "meal entry added successfully"
	MessageSuccessUpdateMealEntry = "meal entry updated successfully"
	MessageSuccessDeleteMealEntry = "meal entry deleted successfully"
	MessageSuccessGetMealEntries  = "meal entries retrieved successfully"
	MessageSuccessUploadMealImage = "meal image uploaded successfully"

	MessageFailedAddMealEntry    = "failed to add meal entry"
	MessageFailedUpdateMealEntry = "failed to update meal entry"
	MessageFailedDeleteMealEntry = "failed to delete meal entry"
	MessageFailedGetMealEntries  = "failed to retrieve meal entries"
	MessageFailedUploadMealImage = "failed to upload meal image"

	ErrMealEntryNotFound  = errors.New("meal entry not found")
	ErrInvalidEatenOn     = errors.New("invalid eaten_on date, expected YYYY-MM-DD")
	ErrInvalidCategory    = errors.New("category must be one of breakfast, lunch, dinner, snack")
	ErrUnauthorizedAccess = errors.New("unauthorized access to meal entry")
	ErrImageRequired      = errors.New("image is required")
)

func IsValidCategory(category string) bool {
	switch category {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack:
		return true
	}
	return false
}

type (
	AddMealEntryRequest struct {
		Name     string                `json:"name" form:"name" validate:"required"`
		Category string                `json:"category" form:"category" validate:"required,oneof=breakfast lunch dinner snack"`
		EatenOn  string                `json:"eaten_on" form:"eaten_on" validate:"required,datetime=2006-01-02"`
		Image    *multipart.FileHeader `json:"image" form:"image"`
	}

	UpdateMealEntryRequest struct {
		Name     string                `json:"name" form:"name" validate:"omitempty"`
		Category string                `json:"category" form:"category" validate:"omitempty,oneof=breakfast lunch dinner snack"`
		EatenOn  string                `json:"eaten_on" form:"eaten_on" validate:"omitempty,datetime=2006-01-02"`
		Image    *multipart.FileHeader `json:"image" form:"image"`
	}

	UploadMealImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	UploadMealImageResponse struct {
		ImageURL string `json:"image_url"`
	}

	// MealEntryResponse is one logged meal as seen by clients and held by the dashboard.
	MealEntryResponse struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id"`
		Name      string    `json:"name"`
		Category  string    `json:"category"`
		EatenOn   string    `json:"eaten_on"`
		ImageURL  *string   `json:"image_url"`
		CreatedAt time.Time `json:"created_at"`
	}
)
