package meal

import (
	"Meal-Tracker/entities"
	"context"
	"gorm.io/gorm"
	"math"
)

type (
	MealRepository interface {
		AddMealEntry(ctx context.Context, entry *entities.MealEntry) error
		GetMealEntryByID(ctx context.Context, id string) (*entities.MealEntry, error)
		UpdateMealEntry(ctx context.Context, entry *entities.MealEntry) error
		DeleteMealEntry(ctx context.Context, id string) error
		ListMealEntries(ctx context.Context, userID string) ([]*entities.MealEntry, error)
		GetMealEntries(ctx context.Context, userID string, category string, page, limit int) ([]*entities.MealEntry, int64, error)
	}

	mealRepository struct {
		db *gorm.DB
	}
)

// newestFirst is the one ordering every listing uses.
const newestFirst = "eaten_on desc, created_at desc"

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) AddMealEntry(ctx context.Context, entry *entities.MealEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *mealRepository) GetMealEntryByID(ctx context.Context, id string) (*entities.MealEntry, error) {
	var entry entities.MealEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mealRepository) UpdateMealEntry(ctx context.Context, entry *entities.MealEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *mealRepository) DeleteMealEntry(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.MealEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *mealRepository) ListMealEntries(ctx context.Context, userID string) ([]*entities.MealEntry, error) {
	var entries []*entities.MealEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mealRepository) GetMealEntries(ctx context.Context, userID string, category string, page, limit int) ([]*entities.MealEntry, int64, error) {
	var entries []*entities.MealEntry
	var count int64

	page, limit = max(page, 1), max(limit, 1)

	query := r.db.WithContext(ctx).Model(&entities.MealEntry{}).Where("user_id = ?", userID)

	if category != "all" && category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	// pages past the end are empty, including ones whose offset would overflow
	if page-1 > (math.MaxInt32-limit)/limit {
		return []*entities.MealEntry{}, count, nil
	}
	offset := (page - 1) * limit

	if err := query.Offset(offset).Limit(limit).Order(newestFirst).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}
