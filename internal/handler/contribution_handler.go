package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/contribution"
)

type ContributionHandler struct {
	crService contribution.Service
}

func NewContributionHandler(crService contribution.Service) *ContributionHandler {
	return &ContributionHandler{crService: crService}
}

func requestMeta(c *fiber.Ctx) contribution.RequestMeta {
	return contribution.RequestMeta{
		IPAddress: middleware.GetIPAddress(c),
		UserAgent: middleware.GetUserAgent(c),
	}
}

func (h *ContributionHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateContributionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	cr, err := h.crService.Create(c.Context(), user, input, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(cr)
}

func (h *ContributionHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var status *domain.ContributionStatus
	if s := c.Query("status"); s != "" {
		st := domain.ContributionStatus(s)
		status = &st
	}

	result, err := h.crService.List(c.Context(), status, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ContributionHandler) ListMine(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	result, err := h.crService.ListByAuthor(c.Context(), user.ID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ContributionHandler) Get(c *fiber.Ctx) error {
	crID, err := parseUUIDParam(c, "contributionId")
	if err != nil {
		return err
	}

	cr, err := h.crService.GetByID(c.Context(), crID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

func (h *ContributionHandler) Submit(c *fiber.Ctx) error {
	crID, err := parseUUIDParam(c, "contributionId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	cr, err := h.crService.Submit(c.Context(), crID, user, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

func (h *ContributionHandler) Withdraw(c *fiber.Ctx) error {
	crID, err := parseUUIDParam(c, "contributionId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	cr, err := h.crService.Withdraw(c.Context(), crID, user, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

func (h *ContributionHandler) Approve(c *fiber.Ctx) error {
	crID, err := parseUUIDParam(c, "contributionId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.ReviewContributionInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return middleware.BadRequest("Invalid request body")
	}

	cr, err := h.crService.Approve(c.Context(), crID, user, input.Note, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}

func (h *ContributionHandler) Reject(c *fiber.Ctx) error {
	crID, err := parseUUIDParam(c, "contributionId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.ReviewContributionInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return middleware.BadRequest("Invalid request body")
	}

	cr, err := h.crService.Reject(c.Context(), crID, user, input.Note, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cr)
}
