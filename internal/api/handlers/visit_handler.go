package handlers

import (
	"dishcovery/domain"
	"dishcovery/internal/api/presenters"
	"dishcovery/pkg/visit"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VisitHandler interface {
		CaptureMenu(c *fiber.Ctx) error
		AnalyzeMenu(c *fiber.Ctx) error
		GetSession(c *fiber.Ctx) error
		SelectDishes(c *fiber.Ctx) error
		RateDish(c *fiber.Ctx) error
		CompleteVisit(c *fiber.Ctx) error
		ListVisits(c *fiber.Ctx) error
		SearchVisits(c *fiber.Ctx) error
		GetDashboardStats(c *fiber.Ctx) error
		GetVisit(c *fiber.Ctx) error
		UpdateVisit(c *fiber.Ctx) error
		UpdateDish(c *fiber.Ctx) error
		DeleteVisit(c *fiber.Ctx) error
		DeleteDish(c *fiber.Ctx) error
	}

	visitHandler struct {
		visitService visit.VisitService
		validator    *validator.Validate
	}
)

func NewVisitHandler(visitService visit.VisitService, validator *validator.Validate) VisitHandler {
	return &visitHandler{
		visitService: visitService,
		validator:    validator,
	}
}

func (h *visitHandler) CaptureMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	photo, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCaptureMenu, domain.ErrEmptyPhoto)
	}

	res, err := h.visitService.CaptureMenu(c.Context(), domain.CaptureMenuRequest{Photo: photo}, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCaptureMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCaptureMenu)
}

func (h *visitHandler) AnalyzeMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.visitService.AnalyzeMenu(c.Context(), userID)
	if err != nil {
		if err == domain.ErrAnalysisFailed {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedAnalyzeMenu, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnalyzeMenu)
}

func (h *visitHandler) GetSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.visitService.GetSession(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSession, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSession)
}

func (h *visitHandler) SelectDishes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SelectDishesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSelectDishes, err)
	}

	res, err := h.visitService.SelectDishes(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSelectDishes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSelectDishes)
}

func (h *visitHandler) RateDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RateDishRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateDish, err)
	}

	res, err := h.visitService.RateDish(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRateDish)
}

func (h *visitHandler) CompleteVisit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CompleteVisitRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteVisit, err)
	}

	res, _, err := h.visitService.CompleteVisit(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteVisit, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCompleteVisit)
}

func (h *visitHandler) ListVisits(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.visitService.ListVisits(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetVisits, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetVisits)
}

func (h *visitHandler) SearchVisits(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	query := c.Query("q")

	res, err := h.visitService.SearchVisits(c.Context(), userID, query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchVisits, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchVisits)
}

func (h *visitHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.visitService.GetDashboardStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *visitHandler) GetVisit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	visitID := c.Params("id")

	res, err := h.visitService.GetVisit(c.Context(), visitID, userID)
	if err != nil {
		return visitErrorResponse(c, domain.MessageFailedGetVisits, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetVisits)
}

func (h *visitHandler) UpdateVisit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	visitID := c.Params("id")
	req := new(domain.UpdateVisitRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateVisit, err)
	}

	res, err := h.visitService.UpdateVisit(c.Context(), visitID, *req, userID)
	if err != nil {
		return visitErrorResponse(c, domain.MessageFailedUpdateVisit, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateVisit)
}

func (h *visitHandler) UpdateDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	dishID := c.Params("id")
	req := new(domain.UpdateDishRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDish, err)
	}

	res, err := h.visitService.UpdateDish(c.Context(), dishID, *req, userID)
	if err != nil {
		return visitErrorResponse(c, domain.MessageFailedUpdateDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDish)
}

func (h *visitHandler) DeleteVisit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	visitID := c.Params("id")

	if err := h.visitService.DeleteVisit(c.Context(), visitID, userID); err != nil {
		return visitErrorResponse(c, domain.MessageFailedDeleteVisit, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteVisit)
}

func (h *visitHandler) DeleteDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	dishID := c.Params("id")

	if err := h.visitService.DeleteDish(c.Context(), dishID, userID); err != nil {
		return visitErrorResponse(c, domain.MessageFailedDeleteDish, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDish)
}

func visitErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch err {
	case domain.ErrVisitNotFound, domain.ErrDishNotFound:
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case domain.ErrUnauthorizedAccess:
		return presenters.ErrorResponse(c, fiber.StatusForbidden, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}
}
