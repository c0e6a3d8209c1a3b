package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	result, err := h.userService.GetAll(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return err
	}

	u, err := h.userService.GetByID(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return err
	}

	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.userService.UpdateProfile(c.Context(), userID, actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.AssignRoleInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	updated, err := h.userService.AssignRole(c.Context(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

type linkNodeRequest struct {
	NodeID *uuid.UUID `json:"node_id"`
}

func (h *UserHandler) LinkNode(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return err
	}

	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var req linkNodeRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.userService.LinkToNode(c.Context(), userID, actor, req.NodeID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return err
	}

	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.userService.Delete(c.Context(), actor, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
