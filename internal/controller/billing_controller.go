package controller

import (
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/serverutils"
	"jewel-backoffice-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	CreateCart(ctx *fiber.Ctx) error
	UpdateCart(ctx *fiber.Ctx) error
	ShowCart(ctx *fiber.Ctx) error
	ListCarts(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	RecordPayment(ctx *fiber.Ctx) error
	ShowInvoice(ctx *fiber.Ctx) error
	ListInvoices(ctx *fiber.Ctx) error
	ComputePrice(ctx *fiber.Ctx) error
}

type billingController struct {
	billingService service.IBillingService
	pricingService service.IPricingService
}

func NewBillingController(billingService service.IBillingService, pricingService service.IPricingService) IBillingController {
	return &billingController{
		billingService: billingService,
		pricingService: pricingService,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("carts", c.CreateCart)
	h.Get("carts", c.ListCarts)
	h.Get("carts/:id", c.ShowCart)
	h.Put("carts/:id", c.UpdateCart)
	h.Post("carts/:id/checkout", c.Checkout)
	h.Get("invoices", c.ListInvoices)
	h.Get("invoices/:id", c.ShowInvoice)
	h.Post("invoices/:id/payments", c.RecordPayment)
	h.Post("pricing", c.ComputePrice)
}

func parseIDParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (c *billingController) CreateCart(ctx *fiber.Ctx) error {
	var req dto.CreateCartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.billingService.CreateCart(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create cart", res))
}

func (c *billingController) UpdateCart(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateCartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.billingService.UpdateCart(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update cart", res))
}

func (c *billingController) ShowCart(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.GetCart(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show cart", res))
}

func (c *billingController) ListCarts(ctx *fiber.Ctx) error {
	res, err := c.billingService.ListCarts(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list carts", res))
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.billingService.Checkout(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success checkout cart", res))
}

func (c *billingController) RecordPayment(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RecordPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.billingService.RecordPayment(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success record payment", res))
}

func (c *billingController) ShowInvoice(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.GetInvoice(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show invoice", res))
}

func (c *billingController) ListInvoices(ctx *fiber.Ctx) error {
	res, err := c.billingService.ListInvoices(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list invoices", res))
}

func (c *billingController) ComputePrice(ctx *fiber.Ctx) error {
	var req dto.PricingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pricingService.Compute(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success compute price", res))
}
