package controller

import (
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/serverutils"
	"jewel-backoffice-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWriterController interface {
	RegisterRoutes(r fiber.Router)
	StartBatch(ctx *fiber.Ctx) error
	ListBatches(ctx *fiber.Ctx) error
	BatchStatus(ctx *fiber.Ctx) error
	BatchDetail(ctx *fiber.Ctx) error
	RetryItem(ctx *fiber.Ctx) error
}

type writerController struct {
	writerService service.IWriterService
}

func NewWriterController(writerService service.IWriterService) IWriterController {
	return &writerController{
		writerService: writerService,
	}
}

func (c *writerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/writer/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("batches", c.StartBatch)
	h.Get("batches", c.ListBatches)
	h.Get("batches/:id", c.BatchStatus)
	h.Get("batches/:id/items", c.BatchDetail)
	h.Post("items/retry", c.RetryItem)
}

func (c *writerController) StartBatch(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StartBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.writerService.StartBatch(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start batch", res))
}

func (c *writerController) ListBatches(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.writerService.ListBatches(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list batches", res))
}

func (c *writerController) BatchStatus(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid batch id")
	}

	res, err := c.writerService.BatchStatus(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show batch", res))
}

func (c *writerController) BatchDetail(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid batch id")
	}

	res, err := c.writerService.BatchDetail(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show batch items", res))
}

func (c *writerController) RetryItem(ctx *fiber.Ctx) error {
	var req dto.RetryItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.writerService.RetryItem(ctx.Context(), req.ItemId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Item requeued", nil))
}
