package domain

import (
	"errors"
)

// DashboardPageSize is the number of meal entries shown per dashboard page.
const DashboardPageSize = 5

const (
	ViewStatusLoading = "loading"
	ViewStatusReady   = "ready"
	ViewStatusFailed  = "failed"
)

var (
	MessageSuccessGetDashboard    = "dashboard retrieved successfully"
	MessageSuccessOpenView        = "dashboard view opened"
	MessageSuccessUpdateView      = "dashboard view updated"
	MessageSuccessCloseView       = "dashboard view closed"
	MessageSuccessDeleteViewEntry = "meal entry removed from dashboard"

	MessageFailedGetDashboard    = "failed to load dashboard"
	MessageFailedOpenView        = "failed to open dashboard view"
	MessageFailedUpdateView      = "failed to update dashboard view"
	MessageFailedCloseView       = "failed to close dashboard view"
	MessageFailedDeleteViewEntry = "failed to delete meal entry"

	ErrFetchFailed      = errors.New("failed to fetch meal entries")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrRecordNotInView  = errors.New("meal entry is not in this view")
	ErrViewNotFound     = errors.New("dashboard view not found")
	ErrViewClosed       = errors.New("dashboard view is closed")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type (
	DashboardQuery struct {
		Query string `query:"q"`
		Page  int    `query:"page"`
	}

	UpdateViewRequest struct {
		Filter *string `json:"filter"`
		Page   *int    `json:"page"`
	}

	DashboardView struct {
		Items         []MealEntryResponse `json:"items"`
		Filter        string              `json:"filter"`
		Page          int                 `json:"page"`
		PageSize      int                 `json:"page_size"`
		TotalPages    int                 `json:"total_pages"`
		FilteredCount int                 `json:"filtered_count"`
		Total         int                 `json:"total"`
		Status        string              `json:"status"`
	}

	OpenViewResponse struct {
		ViewID string        `json:"view_id"`
		View   DashboardView `json:"view"`
	}
)
