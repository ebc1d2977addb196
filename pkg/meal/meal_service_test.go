package meal

import (
	migration "Meal-Tracker/cmd/database/migrate"
	"Meal-Tracker/domain"
	"Meal-Tracker/entities"
	"Meal-Tracker/internal/utils/storage"
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const publicBase = "https://cdn.example.com/meals"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjects) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	user := entities.User{Name: "Test", Email: email, Password: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user.ID.String()
}

func newTestService(t *testing.T) (MealService, *gorm.DB, *fakeObjects) {
	t.Helper()
	db := newTestDB(t)
	objects := &fakeObjects{objects: map[string][]byte{}}
	svc := NewMealService(NewMealRepository(db), storage.NewAwsS3WithClient(objects, "meals", publicBase))
	return svc, db, objects
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestAddMealEntry(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	res, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name:     "Fried Rice",
		Category: domain.CategoryDinner,
		EatenOn:  "2024-03-30",
	}, userID)

	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", res.Name)
	assert.Equal(t, "2024-03-30", res.EatenOn)
	assert.Equal(t, userID, res.UserID)
	assert.Nil(t, res.ImageURL)

	got, err := svc.GetMealEntryByID(context.Background(), res.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, "2024-03-30", got.EatenOn)
}

func TestAddMealEntryValidation(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: domain.CategoryBreakfast, EatenOn: "30/03/2024",
	}, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidEatenOn)

	_, err = svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: "brunch", EatenOn: "2024-03-30",
	}, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: domain.CategoryBreakfast, EatenOn: "2024-03-30",
	}, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestAddMealEntryWithImage(t *testing.T) {
	svc, db, objects := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	res, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name:     "Pad Thai",
		Category: domain.CategoryLunch,
		EatenOn:  "2024-03-30",
		Image:    fileHeader(t, "pad-thai.png", pngHeader),
	}, userID)
	require.NoError(t, err)
	require.NotNil(t, res.ImageURL)

	key := "meal-entries/" + userID + "/meal-entry-" + res.ID + ".png"
	assert.Equal(t, publicBase+"/"+key, *res.ImageURL)
	assert.True(t, objects.has(key))
}

func TestAddMealEntryRejectsNonImage(t *testing.T) {
	svc, db, objects := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name:     "Pad Thai",
		Category: domain.CategoryLunch,
		EatenOn:  "2024-03-30",
		Image:    fileHeader(t, "notes.txt", []byte("just some text")),
	}, userID)

	assert.ErrorIs(t, err, storage.ErrFileTypeNotAllowed)
	assert.Equal(t, 0, objects.len())

	entries, err := svc.ListMealEntries(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListMealEntriesNewestFirst(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")
	otherID := newTestUser(t, db, "b@example.com")

	for _, day := range []string{"2024-03-28", "2024-03-30", "2024-03-29"} {
		_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
			Name: "Meal " + day, Category: domain.CategorySnack, EatenOn: day,
		}, userID)
		require.NoError(t, err)
	}
	_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Not mine", Category: domain.CategorySnack, EatenOn: "2024-03-31",
	}, otherID)
	require.NoError(t, err)

	entries, err := svc.ListMealEntries(context.Background(), userID)
	require.NoError(t, err)

	var days []string
	for _, e := range entries {
		days = append(days, e.EatenOn)
	}
	assert.Equal(t, []string{"2024-03-30", "2024-03-29", "2024-03-28"}, days)

	_, err = svc.ListMealEntries(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestGetMealEntriesByCategory(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	for i, category := range []string{domain.CategoryLunch, domain.CategoryDinner, domain.CategoryLunch, domain.CategoryLunch} {
		_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
			Name: "Meal", Category: category, EatenOn: "2024-03-2" + string(rune('1'+i)),
		}, userID)
		require.NoError(t, err)
	}

	entries, count, err := svc.GetMealEntries(context.Background(), userID, domain.CategoryLunch, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-24", entries[0].EatenOn)

	entries, count, err = svc.GetMealEntries(context.Background(), userID, "all", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Len(t, entries, 2)
}

func TestGetMealEntriesPastTheEnd(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	_, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Meal", Category: domain.CategoryLunch, EatenOn: "2024-03-21",
	}, userID)
	require.NoError(t, err)

	for _, tc := range []struct{ page, limit int }{
		{page: 2, limit: 20},
		{page: math.MaxInt, limit: 100},
		{page: math.MaxInt / 2, limit: 4},
	} {
		entries, count, err := svc.GetMealEntries(context.Background(), userID, "all", tc.page, tc.limit)
		require.NoError(t, err)
		assert.Empty(t, entries, "page=%d limit=%d", tc.page, tc.limit)
		assert.Equal(t, int64(1), count)
	}

	entries, _, err := svc.GetMealEntries(context.Background(), userID, "all", 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateMealEntry(t *testing.T) {
	svc, db, objects := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	res, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: domain.CategoryBreakfast, EatenOn: "2024-03-30",
		Image: fileHeader(t, "toast.png", pngHeader),
	}, userID)
	require.NoError(t, err)

	updated, err := svc.UpdateMealEntry(context.Background(), res.ID, domain.UpdateMealEntryRequest{
		Name:    "French Toast",
		EatenOn: "2024-03-29",
		Image:   fileHeader(t, "toast2.png", pngHeader),
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, "French Toast", updated.Name)
	assert.Equal(t, domain.CategoryBreakfast, updated.Category)
	assert.Equal(t, "2024-03-29", updated.EatenOn)
	assert.Equal(t, *res.ImageURL, *updated.ImageURL)
	assert.Equal(t, 1, objects.len())

	_, err = svc.UpdateMealEntry(context.Background(), res.ID, domain.UpdateMealEntryRequest{Category: "brunch"}, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestMealEntryOwnership(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")
	otherID := newTestUser(t, db, "b@example.com")

	res, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: domain.CategoryBreakfast, EatenOn: "2024-03-30",
	}, userID)
	require.NoError(t, err)

	_, err = svc.GetMealEntryByID(context.Background(), res.ID, otherID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
	assert.ErrorIs(t, svc.DeleteMealEntry(context.Background(), res.ID, otherID), domain.ErrUnauthorizedAccess)

	_, err = svc.GetMealEntryByID(context.Background(), uuid.NewString(), userID)
	assert.ErrorIs(t, err, domain.ErrMealEntryNotFound)
	_, err = svc.GetMealEntryByID(context.Background(), "garbage", userID)
	assert.ErrorIs(t, err, domain.ErrMealEntryNotFound)
}

func TestDeleteMealEntryRemovesImage(t *testing.T) {
	svc, db, objects := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	res, err := svc.AddMealEntry(context.Background(), domain.AddMealEntryRequest{
		Name: "Toast", Category: domain.CategoryBreakfast, EatenOn: "2024-03-30",
		Image: fileHeader(t, "toast.png", pngHeader),
	}, userID)
	require.NoError(t, err)
	require.Equal(t, 1, objects.len())

	require.NoError(t, svc.DeleteMealEntry(context.Background(), res.ID, userID))

	assert.Equal(t, 0, objects.len())
	_, err = svc.GetMealEntryByID(context.Background(), res.ID, userID)
	assert.ErrorIs(t, err, domain.ErrMealEntryNotFound)
	assert.ErrorIs(t, svc.DeleteMealEntry(context.Background(), res.ID, userID), domain.ErrMealEntryNotFound)
}

func TestUploadMealImage(t *testing.T) {
	svc, db, objects := newTestService(t)
	userID := newTestUser(t, db, "a@example.com")

	_, err := svc.UploadMealImage(context.Background(), domain.UploadMealImageRequest{}, userID)
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	res, err := svc.UploadMealImage(context.Background(), domain.UploadMealImageRequest{
		Image: fileHeader(t, "soup.png", pngHeader),
	}, userID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ImageURL, publicBase+"/meal-entries/"+userID+"/upload-"))
	assert.Equal(t, 1, objects.len())

	objects.putErr = errors.New("bucket gone")
	_, err = svc.UploadMealImage(context.Background(), domain.UploadMealImageRequest{
		Image: fileHeader(t, "soup.png", pngHeader),
	}, userID)
	assert.ErrorContains(t, err, "bucket gone")
}
