package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/logger"

	"jewel-backoffice-be/pkg/agent/rewriter"
	"jewel-backoffice-be/pkg/nykaa"
	"jewel-backoffice-be/pkg/shopify"
)

const defaultRewritePageSize = 50

type IRewriterService interface {
	RewriteProducts(ctx context.Context, req *dto.RewriteProductsRequest) (*dto.RewriteProductsResponse, error)
}

type rewriterService struct {
	rewriter  *rewriter.Rewriter
	shopify   *shopify.Client
	materials *shopify.MaterialResolver
	registry  *nykaa.Registry
	throttle  time.Duration
	log       logger.ILogger
}

func NewRewriterService(
	rw *rewriter.Rewriter,
	client *shopify.Client,
	materials *shopify.MaterialResolver,
	registry *nykaa.Registry,
	throttle time.Duration,
	log logger.ILogger,
) IRewriterService {
	return &rewriterService{
		rewriter:  rw,
		shopify:   client,
		materials: materials,
		registry:  registry,
		throttle:  throttle,
		log:       log,
	}
}

func (s *rewriterService) RewriteProducts(ctx context.Context, req *dto.RewriteProductsRequest) (*dto.RewriteProductsResponse, error) {
	products, err := s.selectProducts(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.RewriteProductsResponse{}
	var usedNames []string

	for i, p := range products {
		// Spread write traffic so the store API does not throttle us.
		if i > 0 && s.throttle > 0 {
			select {
			case <-ctx.Done():
				return resp, ctx.Err()
			case <-time.After(s.throttle):
			}
		}

		resp.Processed++

		input := s.toRewriterProduct(ctx, p)
		result := s.rewriter.Rewrite(ctx, input, usedNames)

		out := dto.RewrittenProduct{
			ProductId: p.ID,
			SKU:       p.SKU,
			OldTitle:  p.Title,
		}

		if result.Err != nil {
			out.Error = result.Err.Error()
			resp.Failed++
			resp.Products = append(resp.Products, out)
			continue
		}

		name := nykaa.ClampName(result.GeneratedName)
		desc := nykaa.ClampDescription(result.GeneratedDescription)
		out.NewTitle = name
		out.NewDescription = desc
		usedNames = append(usedNames, name)

		ean, err := s.registry.Generate()
		if err != nil {
			s.log.Warn("RewriterService", "EAN minting failed", map[string]interface{}{
				"sku":   p.SKU,
				"error": err.Error(),
			})
		} else {
			out.EAN = ean
		}

		if !req.DryRun {
			if err := s.writeBack(ctx, p.ID, name, desc, out.EAN); err != nil {
				out.Error = err.Error()
				resp.Failed++
				resp.Products = append(resp.Products, out)
				continue
			}
			out.Updated = true
			resp.Updated++
		}

		resp.Products = append(resp.Products, out)
	}

	return resp, nil
}

// selectProducts resolves the request into concrete store products, either
// by explicit ID list or by walking the catalog.
func (s *rewriterService) selectProducts(ctx context.Context, req *dto.RewriteProductsRequest) ([]shopify.Product, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRewritePageSize
	}

	if len(req.ProductIds) > 0 {
		var products []shopify.Product
		for _, id := range req.ProductIds {
			page, _, err := s.shopify.ProductsPage(ctx, 1, "", fmt.Sprintf("id:%s", strings.TrimPrefix(id, "gid://shopify/Product/")))
			if err != nil {
				return nil, err
			}
			products = append(products, page...)
		}
		return products, nil
	}

	var products []shopify.Product
	cursor := ""
	for {
		page, next, err := s.shopify.ProductsPage(ctx, limit, cursor, "status:active")
		if err != nil {
			return nil, err
		}
		products = append(products, page...)
		if next == "" || len(products) >= limit {
			break
		}
		cursor = next
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *rewriterService) toRewriterProduct(ctx context.Context, p shopify.Product) rewriter.Product {
	price, _ := strconv.ParseFloat(p.Price, 64)

	material := ""
	if p.MaterialGID != "" {
		resolved, err := s.materials.Resolve(ctx, p.MaterialGID)
		if err != nil {
			s.log.Warn("RewriterService", "material lookup failed", map[string]interface{}{
				"gid":   p.MaterialGID,
				"error": err.Error(),
			})
		} else {
			material = resolved
		}
	}

	return rewriter.Product{
		SKU:                p.SKU,
		CurrentName:        p.Title,
		CurrentDescription: p.DescriptionHTML,
		ProductType:        p.ProductType,
		Material:           material,
		Price:              price,
	}
}

func (s *rewriterService) writeBack(ctx context.Context, productID, title, description, ean string) error {
	if err := s.shopify.UpdateProductContent(ctx, productID, title, description); err != nil {
		return err
	}
	if ean == "" {
		return nil
	}
	return s.shopify.SetMetafields(ctx, []shopify.MetafieldInput{{
		OwnerID:   productID,
		Namespace: "custom",
		Key:       "ean",
		Type:      "single_line_text_field",
		Value:     ean,
	}})
}
