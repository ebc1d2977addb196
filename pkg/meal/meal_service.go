package meal

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/entities"
	"Meal-Tracker/internal/utils/storage"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	MealService interface {
		AddMealEntry(ctx context.Context, req domain.AddMealEntryRequest, userID string) (domain.MealEntryResponse, error)
		UpdateMealEntry(ctx context.Context, id string, req domain.UpdateMealEntryRequest, userID string) (domain.MealEntryResponse, error)
		DeleteMealEntry(ctx context.Context, id string, userID string) error
		GetMealEntryByID(ctx context.Context, id string, userID string) (domain.MealEntryResponse, error)
		ListMealEntries(ctx context.Context, userID string) ([]domain.MealEntryResponse, error)
		GetMealEntries(ctx context.Context, userID string, category string, page, limit int) ([]domain.MealEntryResponse, int64, error)
		UploadMealImage(ctx context.Context, req domain.UploadMealImageRequest, userID string) (domain.UploadMealImageResponse, error)
	}

	mealService struct {
		mealRepository MealRepository
		s3             storage.AwsS3
	}
)

func NewMealService(mealRepository MealRepository, s3 storage.AwsS3) MealService {
	return &mealService{
		mealRepository: mealRepository,
		s3:             s3,
	}
}

func imageFolder(userID string) string {
	return "meal-entries/" + userID
}

func (s *mealService) AddMealEntry(ctx context.Context, req domain.AddMealEntryRequest, userID string) (domain.MealEntryResponse, error) {
	eatenOn, err := time.Parse(domain.DateLayout, req.EatenOn)
	if err != nil {
		return domain.MealEntryResponse{}, domain.ErrInvalidEatenOn
	}

	if !domain.IsValidCategory(req.Category) {
		return domain.MealEntryResponse{}, domain.ErrInvalidCategory
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MealEntryResponse{}, domain.ErrParseUUID
	}

	entry := &entities.MealEntry{
		ID:       uuid.New(),
		UserID:   userUUID,
		Name:     req.Name,
		Category: req.Category,
		EatenOn:  eatenOn,
	}

	var objectKey string
	if req.Image != nil {
		fileName := fmt.Sprintf("meal-entry-%s", entry.ID.String())
		objectKey, err = s.s3.UploadFile(ctx, fileName, req.Image, imageFolder(userID), storage.AllowImage...)
		if err != nil {
			return domain.MealEntryResponse{}, err
		}
		imageURL := s.s3.GetPublicLinkKey(objectKey)
		entry.ImageURL = &imageURL
	}

	if err := s.mealRepository.AddMealEntry(ctx, entry); err != nil {
		if objectKey != "" {
			if delErr := s.s3.DeleteFile(ctx, objectKey); delErr != nil {
				log.Errorf("failed to remove orphaned image %s: %v", objectKey, delErr)
			}
		}
		return domain.MealEntryResponse{}, err
	}

	return toMealEntryResponse(entry), nil
}

func (s *mealService) UpdateMealEntry(ctx context.Context, id string, req domain.UpdateMealEntryRequest, userID string) (domain.MealEntryResponse, error) {
	entry, err := s.getOwnedEntry(ctx, id, userID)
	if err != nil {
		return domain.MealEntryResponse{}, err
	}

	if req.Name != "" {
		entry.Name = req.Name
	}

	if req.Category != "" {
		if !domain.IsValidCategory(req.Category) {
			return domain.MealEntryResponse{}, domain.ErrInvalidCategory
		}
		entry.Category = req.Category
	}

	if req.EatenOn != "" {
		eatenOn, err := time.Parse(domain.DateLayout, req.EatenOn)
		if err != nil {
			return domain.MealEntryResponse{}, domain.ErrInvalidEatenOn
		}
		entry.EatenOn = eatenOn
	}

	if req.Image != nil {
		var objectKey string
		var uploadErr error

		existingKey := ""
		if entry.ImageURL != nil {
			existingKey = s.s3.GetObjectKeyFromLink(*entry.ImageURL)
		}
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(ctx, existingKey, req.Image, storage.AllowImage...)
		} else {
			fileName := fmt.Sprintf("meal-entry-%s", entry.ID.String())
			objectKey, uploadErr = s.s3.UploadFile(ctx, fileName, req.Image, imageFolder(userID), storage.AllowImage...)
		}
		if uploadErr != nil {
			return domain.MealEntryResponse{}, uploadErr
		}
		imageURL := s.s3.GetPublicLinkKey(objectKey)
		entry.ImageURL = &imageURL
	}

	if err := s.mealRepository.UpdateMealEntry(ctx, entry); err != nil {
		return domain.MealEntryResponse{}, err
	}

	return toMealEntryResponse(entry), nil
}

func (s *mealService) DeleteMealEntry(ctx context.Context, id string, userID string) error {
	entry, err := s.getOwnedEntry(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.mealRepository.DeleteMealEntry(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMealEntryNotFound
		}
		return err
	}

	if entry.ImageURL != nil {
		if objectKey := s.s3.GetObjectKeyFromLink(*entry.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Errorf("failed to delete image for meal entry %s: %v", id, err)
			}
		}
	}

	return nil
}

func (s *mealService) GetMealEntryByID(ctx context.Context, id string, userID string) (domain.MealEntryResponse, error) {
	entry, err := s.getOwnedEntry(ctx, id, userID)
	if err != nil {
		return domain.MealEntryResponse{}, err
	}
	return toMealEntryResponse(entry), nil
}

func (s *mealService) ListMealEntries(ctx context.Context, userID string) ([]domain.MealEntryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}

	entries, err := s.mealRepository.ListMealEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.MealEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toMealEntryResponse(entry))
	}
	return response, nil
}

func (s *mealService) GetMealEntries(ctx context.Context, userID string, category string, page, limit int) ([]domain.MealEntryResponse, int64, error) {
	entries, count, err := s.mealRepository.GetMealEntries(ctx, userID, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.MealEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toMealEntryResponse(entry))
	}
	return response, count, nil
}

func (s *mealService) UploadMealImage(ctx context.Context, req domain.UploadMealImageRequest, userID string) (domain.UploadMealImageResponse, error) {
	if req.Image == nil {
		return domain.UploadMealImageResponse{}, domain.ErrImageRequired
	}
	if _, err := uuid.Parse(userID); err != nil {
		return domain.UploadMealImageResponse{}, domain.ErrParseUUID
	}

	fileName := fmt.Sprintf("upload-%s", uuid.New().String())
	objectKey, err := s.s3.UploadFile(ctx, fileName, req.Image, imageFolder(userID), storage.AllowImage...)
	if err != nil {
		return domain.UploadMealImageResponse{}, err
	}

	return domain.UploadMealImageResponse{
		ImageURL: s.s3.GetPublicLinkKey(objectKey),
	}, nil
}

func (s *mealService) getOwnedEntry(ctx context.Context, id string, userID string) (*entities.MealEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrMealEntryNotFound
	}

	entry, err := s.mealRepository.GetMealEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMealEntryNotFound
		}
		return nil, err
	}

	if entry.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return entry, nil
}

func toMealEntryResponse(entry *entities.MealEntry) domain.MealEntryResponse {
	return domain.MealEntryResponse{
		ID:        entry.ID.String(),
		UserID:    entry.UserID.String(),
		Name:      entry.Name,
		Category:  entry.Category,
		EatenOn:   entry.EatenOn.Format(domain.DateLayout),
		ImageURL:  entry.ImageURL,
		CreatedAt: entry.CreatedAt,
	}
}
