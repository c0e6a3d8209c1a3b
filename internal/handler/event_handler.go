package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/event"
)

type EventHandler struct {
	eventService event.Service
}

func NewEventHandler(eventService event.Service) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	created, err := h.eventService.CreateEvent(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *EventHandler) ListByNode(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	events, err := h.eventService.ListEventsByNode(c.Context(), nodeID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(events)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	eventID, err := parseUUIDParam(c, "eventId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.eventService.DeleteEvent(c.Context(), user, eventID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *EventHandler) CreateDnaMarker(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateDnaMarkerInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	created, err := h.eventService.CreateDnaMarker(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *EventHandler) ListDnaMarkersByNode(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	markers, err := h.eventService.ListDnaMarkersByNode(c.Context(), nodeID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(markers)
}

func (h *EventHandler) DeleteDnaMarker(c *fiber.Ctx) error {
	markerID, err := parseUUIDParam(c, "markerId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.eventService.DeleteDnaMarker(c.Context(), user, markerID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
