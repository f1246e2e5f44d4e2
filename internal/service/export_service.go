package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/internal/pkg/mailer"

	"jewel-backoffice-be/pkg/drive"
	"jewel-backoffice-be/pkg/events"
	pktNats "jewel-backoffice-be/pkg/nats"
	"jewel-backoffice-be/pkg/nykaa"
	"jewel-backoffice-be/pkg/shopify"

	"github.com/google/uuid"
)

const exportPageSize = 100

type IExportService interface {
	ExportNykaa(ctx context.Context, req *dto.ExportNykaaRequest) (*dto.ExportNykaaResponse, error)
}

type exportService struct {
	shopify        *shopify.Client
	materials      *shopify.MaterialResolver
	exporter       *nykaa.Exporter
	downloader     *drive.Downloader
	uploader       *drive.CDNUploader
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewExportService(
	client *shopify.Client,
	materials *shopify.MaterialResolver,
	exporter *nykaa.Exporter,
	downloader *drive.Downloader,
	uploader *drive.CDNUploader,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IExportService {
	return &exportService{
		shopify:        client,
		materials:      materials,
		exporter:       exporter,
		downloader:     downloader,
		uploader:       uploader,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *exportService) ExportNykaa(ctx context.Context, req *dto.ExportNykaaRequest) (*dto.ExportNykaaResponse, error) {
	products, err := s.selectProducts(ctx, req.SKUs)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExportNykaaResponse{TotalProducts: len(products)}

	sources := make([]nykaa.Source, 0, len(products))
	for _, p := range products {
		sources = append(sources, s.toSource(ctx, p, req.SkipDrive))
	}

	rows, err := s.exporter.BuildRows(sources)
	if err != nil {
		return nil, err
	}

	// Validation failures drop the row from the sheet instead of
	// failing the export.
	valid := make([]nykaa.Row, 0, len(rows))
	for _, row := range rows {
		if issues := nykaa.Validate(row); len(issues) > 0 {
			resp.SkippedRows = append(resp.SkippedRows, dto.ExportRowError{
				SKU:    row["Vendor SKU Code"],
				Issues: issues,
			})
			continue
		}
		valid = append(valid, row)
	}

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, valid); err != nil {
		return nil, err
	}

	resp.ExportedRows = len(valid)
	resp.CSV = buf.String()

	if req.EmailTo != "" {
		filename := fmt.Sprintf("nykaa-export-%s.csv", time.Now().Format("2006-01-02"))
		subject := fmt.Sprintf("Nykaa catalog export (%d products)", len(valid))
		if err := s.emailService.SendCSVExport(req.EmailTo, subject, buf.Bytes(), filename); err != nil {
			s.log.Error("ExportService", "failed to email export", map[string]interface{}{"error": err.Error()})
		} else {
			resp.EmailedTo = req.EmailTo
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewExportReady(uuid.New().String(), len(valid))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("ExportService", "failed to publish export event", map[string]interface{}{"error": err.Error()})
		}
	}

	return resp, nil
}

func (s *exportService) selectProducts(ctx context.Context, skus []string) ([]shopify.Product, error) {
	if len(skus) > 0 {
		products := make([]shopify.Product, 0, len(skus))
		for _, sku := range skus {
			p, err := s.shopify.ProductBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			products = append(products, *p)
		}
		return products, nil
	}

	var products []shopify.Product
	cursor := ""
	for {
		page, next, err := s.shopify.ProductsPage(ctx, exportPageSize, cursor, "status:active")
		if err != nil {
			return nil, err
		}
		products = append(products, page...)
		if next == "" {
			break
		}
		cursor = next
	}
	return products, nil
}

func (s *exportService) toSource(ctx context.Context, p shopify.Product, skipDrive bool) nykaa.Source {
	material := ""
	if p.MaterialGID != "" {
		if resolved, err := s.materials.Resolve(ctx, p.MaterialGID); err == nil {
			material = resolved
		}
	}

	images := make([]string, 0, len(p.ImageURLs))
	for i, raw := range p.ImageURLs {
		images = append(images, s.resolveImage(ctx, p.SKU, i, raw, skipDrive))
	}

	return nykaa.Source{
		SKU:             p.SKU,
		Title:           p.Title,
		DescriptionHTML: p.DescriptionHTML,
		ProductType:     p.ProductType,
		Price:           p.Price,
		Material:        material,
		Images:          images,
	}
}

// resolveImage rehosts shared Drive links on the store CDN so the
// marketplace importer gets a stable public URL. When the bridge is
// unavailable it falls back to the direct download endpoint, which
// only works for publicly shared files.
func (s *exportService) resolveImage(ctx context.Context, sku string, index int, raw string, skipDrive bool) string {
	if skipDrive || !drive.IsDriveURL(raw) {
		return raw
	}

	if s.downloader != nil && s.uploader != nil {
		if url, err := s.rehost(ctx, sku, index, raw); err == nil {
			return url
		} else {
			s.log.Warn("ExportService", "image rehost failed, falling back to direct link", map[string]interface{}{
				"sku":   sku,
				"url":   raw,
				"error": err.Error(),
			})
		}
	}

	id := drive.ExtractFileID(raw)
	if id == "" {
		return raw
	}
	return drive.DirectDownloadURL(id)
}

func (s *exportService) rehost(ctx context.Context, sku string, index int, raw string) (string, error) {
	img, err := s.downloader.Download(ctx, raw)
	if err != nil {
		return "", err
	}

	ext := ".jpg"
	if img.MIMEType == "image/png" {
		ext = ".png"
	}
	filename := fmt.Sprintf("%s-%d%s", sku, index+1, ext)
	return s.uploader.Upload(ctx, filename, img.Data)
}
