package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/media"
)

const maxUploadSize = 20 * 1024 * 1024

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	if file.Size > maxUploadSize {
		return middleware.BadRequest("File size must be less than 20MB")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var nodeID *uuid.UUID
	if nidStr := c.FormValue("node_id"); nidStr != "" {
		nid, err := uuid.Parse(nidStr)
		if err != nil {
			return middleware.BadRequest("Invalid node_id")
		}
		nodeID = &nid
	}

	var caption *string
	if cap := c.FormValue("caption"); cap != "" {
		caption = &cap
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	uploaded, err := h.mediaService.Upload(c.Context(), user, nodeID, caption, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	var nodeID *uuid.UUID
	if nidStr := c.Query("node_id"); nidStr != "" {
		nid, err := uuid.Parse(nidStr)
		if err != nil {
			return middleware.BadRequest("Invalid node_id")
		}
		nodeID = &nid
	}

	result, err := h.mediaService.List(c.Context(), nodeID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MediaHandler) Get(c *fiber.Ctx) error {
	mediaID, err := parseUUIDParam(c, "mediaId")
	if err != nil {
		return err
	}

	result, err := h.mediaService.GetByID(c.Context(), mediaID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MediaHandler) Approve(c *fiber.Ctx) error {
	mediaID, err := parseUUIDParam(c, "mediaId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.mediaService.Approve(c.Context(), user, mediaID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Media approved"})
}

func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	mediaID, err := parseUUIDParam(c, "mediaId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.mediaService.Delete(c.Context(), user, mediaID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
