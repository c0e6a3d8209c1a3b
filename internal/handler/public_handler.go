package handler

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service/node"
)

const treeCacheTTL = 10 * time.Minute

// PublicHandler serves the read-only endpoints that need no account: the
// published tree, node pages, search and the map.
type PublicHandler struct {
	nodeService node.Service
	redis       *redis.Client
}

func NewPublicHandler(nodeService node.Service, redis *redis.Client) *PublicHandler {
	return &PublicHandler{
		nodeService: nodeService,
		redis:       redis,
	}
}

// GetTree returns every root lineage with its descendants. The assembled
// tree is cached; node mutations invalidate the key.
func (h *PublicHandler) GetTree(c *fiber.Ctx) error {
	if h.redis != nil {
		if cached, err := h.redis.Get(c.Context(), node.PublicTreeCacheKey).Result(); err == nil {
			c.Set("Content-Type", "application/json")
			return c.Status(fiber.StatusOK).SendString(cached)
		}
	}

	roots, err := h.nodeService.Roots(c.Context())
	if err != nil {
		return err
	}

	tree := make([][]domain.NodeWithChildren, 0, len(roots))
	for _, root := range roots {
		subtree, err := h.nodeService.Subtree(c.Context(), root.ID, 20)
		if err != nil {
			return err
		}
		tree = append(tree, subtree)
	}

	response := fiber.Map{"roots": tree}

	if h.redis != nil {
		if payload, err := json.Marshal(response); err == nil {
			_ = h.redis.Set(c.Context(), node.PublicTreeCacheKey, payload, treeCacheTTL).Err()
		}
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *PublicHandler) GetNode(c *fiber.Ctx) error {
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

func (h *PublicHandler) GetAncestors(c *fiber.Ctx) error {
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

func (h *PublicHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 10)

	if len(query) < 2 {
		return middleware.BadRequest("Search query must be at least 2 characters")
	}

	nodes, err := h.nodeService.Search(c.Context(), query, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(nodes)
}

// GetMap returns all published geotagged nodes for the migration map.
func (h *PublicHandler) GetMap(c *fiber.Ctx) error {
	nodes, err := h.nodeService.MapNodes(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(nodes)
}
