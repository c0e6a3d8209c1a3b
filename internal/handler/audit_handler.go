package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/z3by/arabtree-sub000/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	logs, err := h.auditService.GetRecentActivities(c.Context(), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	result, err := h.auditService.List(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuditHandler) ListByEntity(c *fiber.Ctx) error {
	entityID, err := parseUUIDParam(c, "entityId")
	if err != nil {
		return err
	}

	entityType := c.Params("entityType")
	if entityType == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Entity type is required")
	}

	result, err := h.auditService.ListByEntity(c.Context(), entityType, entityID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
