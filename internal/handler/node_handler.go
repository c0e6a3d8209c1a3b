package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/node"
)

type NodeHandler struct {
	nodeService node.Service
}

func NewNodeHandler(nodeService node.Service) *NodeHandler {
	return &NodeHandler{nodeService: nodeService}
}

func (h *NodeHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateNodeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	created, err := h.nodeService.Create(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *NodeHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var status *domain.NodeStatus
	if s := c.Query("status"); s != "" {
		st := domain.NodeStatus(s)
		if !st.IsValid() {
			return middleware.BadRequest("Invalid status filter")
		}
		status = &st
	}

	result, err := h.nodeService.List(c.Context(), status, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NodeHandler) Get(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	result, err := h.nodeService.GetWithChildren(c.Context(), nodeID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NodeHandler) Update(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.UpdateNodeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.nodeService.Update(c.Context(), nodeID, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *NodeHandler) Archive(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	if err := h.nodeService.Archive(c.Context(), nodeID, user); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NodeHandler) Ancestors(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	ancestors, err := h.nodeService.Ancestors(c.Context(), nodeID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(ancestors)
}

func (h *NodeHandler) Subtree(c *fiber.Ctx) error {
	nodeID, err := parseUUIDParam(c, "nodeId")
	if err != nil {
		return err
	}

	maxDepth := c.QueryInt("depth", 5)

	subtree, err := h.nodeService.Subtree(c.Context(), nodeID, maxDepth)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(subtree)
}
