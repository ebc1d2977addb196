package handlers

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/internal/middleware"
	"Meal-Tracker/internal/utils"
	"Meal-Tracker/internal/utils/storage"
	"Meal-Tracker/pkg/jwt"
	"Meal-Tracker/pkg/user"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	to []string
}

func (o *outbox) SendMail(to, _, _ string) error {
	o.to = append(o.to, to)
	return nil
}

type userTest struct {
	t       *testing.T
	app     *fiber.App
	objects *bucketObjects
	mail    *outbox
}

func newUserTest(t *testing.T) *userTest {
	t.Helper()
	utils.InitValidator()

	objects := &bucketObjects{keys: map[string]string{}}
	mail := &outbox{}
	jwtService := jwt.NewJWTServiceWithSecret("handler-test")
	userService := user.NewUserService(
		user.NewUserRepository(newHandlerDB(t)),
		jwtService,
		storage.NewAwsS3WithClient(objects, "avatars", testPublicBase),
		mail,
		"https://meals.example.com",
	)
	h := NewUserHandler(userService, utils.Validate)

	app := fiber.New()
	users := app.Group("/api/v1/users")
	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Post("/forget", h.ForgotPassword)
	users.Post("/reset", h.ResetPassword)
	users.Get("/me", middleware.NewMiddleware().AuthMiddleware(jwtService), h.Me)
	users.Patch("/update", middleware.NewMiddleware().AuthMiddleware(jwtService), h.UpdateUser)

	return &userTest{t: t, app: app, objects: objects, mail: mail}
}

func (u *userTest) register(email string) domain.UserResponse {
	u.t.Helper()
	status, env := send(u.t, u.app, jsonRequest(u.t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"name": "Somchai", "email": email, "password": "correct-horse",
	}), "")
	require.Equal(u.t, http.StatusCreated, status, env.Message)

	var res domain.UserResponse
	require.NoError(u.t, json.Unmarshal(env.Data, &res))
	return res
}

func (u *userTest) login(email, password string) (int, string) {
	u.t.Helper()
	status, env := send(u.t, u.app, jsonRequest(u.t, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email": email, "password": password,
	}), "")
	if status != http.StatusOK {
		return status, ""
	}
	var res domain.LoginResponse
	require.NoError(u.t, json.Unmarshal(env.Data, &res))
	return status, res.Token
}

func TestRegisterRoute(t *testing.T) {
	u := newUserTest(t)

	created := u.register("a@example.com")
	assert.Equal(t, "a@example.com", created.Email)
	assert.Empty(t, created.ImageURL)

	status, env := send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"name": "Other", "email": "A@Example.com", "password": "another-pass",
	}), "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.ErrEmailAlreadyExists.Error(), env.Error)
}

func TestRegisterRouteValidation(t *testing.T) {
	u := newUserTest(t)

	status, env := send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"name": "Somchai", "email": "not-an-email", "password": "correct-horse",
	}), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"email": "email"}, env.Error)

	status, env = send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"name": "Somchai", "email": "a@example.com", "password": "short",
	}), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"password": "min"}, env.Error)
}

func TestRegisterRouteWithAvatar(t *testing.T) {
	u := newUserTest(t)

	req := formRequest(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"name": "Somchai", "email": "a@example.com", "password": "correct-horse",
	}, "me.png", pngHeader)
	status, env := send(t, u.app, req, "")

	require.Equal(t, http.StatusCreated, status, env.Message)
	var res domain.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, testPublicBase+"/avatars/"+res.ID+"/avatar-"+res.ID+".png", res.ImageURL)
	assert.Equal(t, 1, u.objects.len())
}

func TestLoginAndMeRoutes(t *testing.T) {
	u := newUserTest(t)
	created := u.register("a@example.com")

	status, _ := u.login("a@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, token := u.login("a@example.com", "correct-horse")
	require.Equal(t, http.StatusOK, status)

	status, env := send(t, u.app, jsonRequest(t, http.MethodGet, "/api/v1/users/me", nil), token)
	require.Equal(t, http.StatusOK, status)
	var me domain.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, created.ID, me.ID)

	status, _ = send(t, u.app, jsonRequest(t, http.MethodGet, "/api/v1/users/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateUserRoute(t *testing.T) {
	u := newUserTest(t)
	u.register("a@example.com")
	u.register("b@example.com")
	_, token := u.login("a@example.com", "correct-horse")

	req := formRequest(t, http.MethodPatch, "/api/v1/users/update", map[string]string{"name": "Somchai J."}, "me.png", pngHeader)
	status, env := send(t, u.app, req, token)
	require.Equal(t, http.StatusOK, status, env.Message)
	var res domain.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Somchai J.", res.Name)
	assert.NotEmpty(t, res.ImageURL)

	req = formRequest(t, http.MethodPatch, "/api/v1/users/update", map[string]string{"email": "b@example.com"}, "", nil)
	status, _ = send(t, u.app, req, token)
	assert.Equal(t, http.StatusConflict, status)
}

func TestPasswordResetRoutes(t *testing.T) {
	u := newUserTest(t)
	u.register("a@example.com")

	status, _ := send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/forget", map[string]string{
		"email": "ghost@example.com",
	}), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, u.mail.to)

	status, _ = send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/forget", map[string]string{
		"email": "a@example.com",
	}), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"a@example.com"}, u.mail.to)

	status, env := send(t, u.app, jsonRequest(t, http.MethodPost, "/api/v1/users/reset", map[string]string{
		"token": "not-a-token", "new_password": "brand-new-pass",
	}), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidResetToken.Error(), env.Error)
}
