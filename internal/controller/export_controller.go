package controller

import (
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/serverutils"
	"jewel-backoffice-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	ExportNykaa(ctx *fiber.Ctx) error
	DownloadNykaa(ctx *fiber.Ctx) error
}

type exportController struct {
	exportService service.IExportService
}

func NewExportController(exportService service.IExportService) IExportController {
	return &exportController{
		exportService: exportService,
	}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("nykaa", c.ExportNykaa)
	h.Post("nykaa/download", c.DownloadNykaa)
}

func (c *exportController) ExportNykaa(ctx *fiber.Ctx) error {
	var req dto.ExportNykaaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.exportService.ExportNykaa(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export catalog", res))
}

// DownloadNykaa streams the sheet as a file instead of wrapping it in the
// JSON envelope.
func (c *exportController) DownloadNykaa(ctx *fiber.Ctx) error {
	var req dto.ExportNykaaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.exportService.ExportNykaa(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="nykaa-export.csv"`)
	return ctx.SendString(res.CSV)
}
