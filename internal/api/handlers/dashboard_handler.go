package handlers

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/internal/api/presenters"
	"Meal-Tracker/pkg/dashboard"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DashboardHandler interface {
		GetDashboard(c *fiber.Ctx) error
		OpenView(c *fiber.Ctx) error
		GetView(c *fiber.Ctx) error
		UpdateView(c *fiber.Ctx) error
		DeleteViewEntry(c *fiber.Ctx) error
		CloseView(c *fiber.Ctx) error
	}

	dashboardHandler struct {
		store     dashboard.RecordStore
		registry  *dashboard.Registry
		pageSize  int
		validator *validator.Validate
	}

	// localsSession reads the session the auth middleware stored on the request.
	localsSession struct {
		c *fiber.Ctx
	}
)

func NewDashboardHandler(store dashboard.RecordStore, registry *dashboard.Registry, pageSize int, validator *validator.Validate) DashboardHandler {
	return &dashboardHandler{
		store:     store,
		registry:  registry,
		pageSize:  pageSize,
		validator: validator,
	}
}

func (s localsSession) CurrentSession() (dashboard.Session, bool) {
	userID, ok := s.c.Locals("user_id").(string)
	if !ok || userID == "" {
		return dashboard.Session{}, false
	}
	return dashboard.NewSession(userID), true
}

func currentSession(provider dashboard.SessionProvider) (dashboard.Session, error) {
	session, ok := provider.CurrentSession()
	if !ok || !session.Authenticated {
		return dashboard.Session{}, domain.ErrNotAuthenticated
	}
	return session, nil
}

func dashboardErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrViewNotFound), errors.Is(err, domain.ErrRecordNotInView):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrViewClosed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrFetchFailed):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func (h *dashboardHandler) GetDashboard(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetDashboard, err)
	}

	query := new(domain.DashboardQuery)
	if err := c.QueryParser(query); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	view, err := dashboard.Load(c.Context(), h.store, session, h.pageSize, query.Query, query.Page)
	if err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, view, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *dashboardHandler) OpenView(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedOpenView, err)
	}

	viewID, controller, err := h.registry.Open(c.Context(), session)
	if err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedOpenView, err)
	}

	return presenters.SuccessResponse(c, domain.OpenViewResponse{
		ViewID: viewID,
		View:   controller.Snapshot(),
	}, fiber.StatusCreated, domain.MessageSuccessOpenView)
}

func (h *dashboardHandler) GetView(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetDashboard, err)
	}

	controller, err := h.registry.Get(c.Params("view_id"), session.OwnerID)
	if err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, controller.Snapshot(), fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *dashboardHandler) UpdateView(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedUpdateView, err)
	}

	req := new(domain.UpdateViewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateView, err)
	}

	controller, err := h.registry.Get(c.Params("view_id"), session.OwnerID)
	if err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedUpdateView, err)
	}

	// filter first: it resets the page
	if req.Filter != nil {
		controller.SetFilter(*req.Filter)
	}
	if req.Page != nil {
		controller.SetPage(*req.Page)
	}

	return presenters.SuccessResponse(c, controller.Snapshot(), fiber.StatusOK, domain.MessageSuccessUpdateView)
}

func (h *dashboardHandler) DeleteViewEntry(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedDeleteViewEntry, err)
	}

	controller, err := h.registry.Get(c.Params("view_id"), session.OwnerID)
	if err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedDeleteViewEntry, err)
	}

	if err := controller.Delete(c.Context(), c.Params("id")); err != nil {
		var deleteErr *dashboard.DeleteError
		if errors.As(err, &deleteErr) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteViewEntry+": "+deleteErr.Reason, err)
		}
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedDeleteViewEntry, err)
	}

	return presenters.SuccessResponse(c, controller.Snapshot(), fiber.StatusOK, domain.MessageSuccessDeleteViewEntry)
}

func (h *dashboardHandler) CloseView(c *fiber.Ctx) error {
	session, err := currentSession(localsSession{c})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedCloseView, err)
	}

	if err := h.registry.Close(c.Params("view_id"), session.OwnerID); err != nil {
		return presenters.ErrorResponse(c, dashboardErrorStatus(err), domain.MessageFailedCloseView, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCloseView)
}
