package controller

import (
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/serverutils"
	"jewel-backoffice-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRewriterController interface {
	RegisterRoutes(r fiber.Router)
	Rewrite(ctx *fiber.Ctx) error
}

type rewriterController struct {
	rewriterService service.IRewriterService
}

func NewRewriterController(rewriterService service.IRewriterService) IRewriterController {
	return &rewriterController{
		rewriterService: rewriterService,
	}
}

func (c *rewriterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rewriter/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("rewrite", c.Rewrite)
}

func (c *rewriterController) Rewrite(ctx *fiber.Ctx) error {
	var req dto.RewriteProductsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.rewriterService.RewriteProducts(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success rewrite products", res))
}
