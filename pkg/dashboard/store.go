package dashboard

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/pkg/meal"
	"context"
)

type (
	// RecordStore is where a view loads its entries from and sends deletes to.
	// ListRecords must return entries newest-first.
	RecordStore interface {
		ListRecords(ctx context.Context, ownerID string) ([]domain.MealEntryResponse, error)
		DeleteRecord(ctx context.Context, id string, ownerID string) error
	}

	mealStore struct {
		mealService meal.MealService
	}
)

func NewMealStore(mealService meal.MealService) RecordStore {
	return &mealStore{mealService: mealService}
}

func (s *mealStore) ListRecords(ctx context.Context, ownerID string) ([]domain.MealEntryResponse, error) {
	return s.mealService.ListMealEntries(ctx, ownerID)
}

func (s *mealStore) DeleteRecord(ctx context.Context, id string, ownerID string) error {
	return s.mealService.DeleteMealEntry(ctx, id, ownerID)
}
