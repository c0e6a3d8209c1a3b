package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/service"
)

var validate = validator.New()

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Node         *NodeHandler
	Contribution *ContributionHandler
	Event        *EventHandler
	Media        *MediaHandler
	Public       *PublicHandler
	Audit        *AuditHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(services *service.Services, redis *redis.Client) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Node:         NewNodeHandler(services.Node),
		Contribution: NewContributionHandler(services.Contribution),
		Event:        NewEventHandler(services.Event),
		Media:        NewMediaHandler(services.Media),
		Public:       NewPublicHandler(services.Node, redis),
		Audit:        NewAuditHandler(services.Audit),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + name)
	}
	return id, nil
}

func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return middleware.BadRequest(err.Error())
	}
	return nil
}
