package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/z3by/arabtree-sub000/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *DashboardHandler) Leaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	entries, err := h.dashboardService.GetLeaderboard(c.Context(), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}
