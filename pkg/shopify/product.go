package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Product is the subset of a Shopify product the back office works with.
type Product struct {
	ID              string
	Title           string
	DescriptionHTML string
	ProductType     string
	Status          string
	SKU             string
	Price           string
	MaterialGID     string
	ImageURLs       []string
}

const productBySKUQuery = `
query productBySku($query: String!) {
    products(first: 1, query: $query) {
        edges {
            node {
                id
                title
                descriptionHtml
                productType
                status
                images(first: 10) {
                    edges {
                        node {
                            url
                        }
                    }
                }
                variants(first: 1) {
                    edges {
                        node {
                            sku
                            price
                        }
                    }
                }
                material: metafield(namespace: "custom", key: "material") {
                    value
                }
            }
        }
    }
}`

// ProductBySKU looks up one product by variant SKU. A missing product is an
// error: callers pass SKUs taken from the catalog sheet and a miss means the
// sheet and store have diverged.
func (c *Client) ProductBySKU(ctx context.Context, sku string) (*Product, error) {
	data, err := c.Execute(ctx, productBySKUQuery, map[string]any{
		"query": fmt.Sprintf("sku:%s", sku),
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID              string `json:"id"`
					Title           string `json:"title"`
					DescriptionHTML string `json:"descriptionHtml"`
					ProductType     string `json:"productType"`
					Status          string `json:"status"`
					Images          struct {
						Edges []struct {
							Node struct {
								URL string `json:"url"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
					Variants struct {
						Edges []struct {
							Node struct {
								SKU   string `json:"sku"`
								Price string `json:"price"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
					Material *struct {
						Value string `json:"value"`
					} `json:"material"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	if len(resp.Products.Edges) == 0 {
		return nil, fmt.Errorf("no product found for sku %s", sku)
	}

	node := resp.Products.Edges[0].Node
	p := &Product{
		ID:              node.ID,
		Title:           node.Title,
		DescriptionHTML: node.DescriptionHTML,
		ProductType:     node.ProductType,
		Status:          node.Status,
	}
	for _, e := range node.Images.Edges {
		p.ImageURLs = append(p.ImageURLs, e.Node.URL)
	}
	if len(node.Variants.Edges) > 0 {
		p.SKU = node.Variants.Edges[0].Node.SKU
		p.Price = node.Variants.Edges[0].Node.Price
	}
	if node.Material != nil {
		p.MaterialGID = strings.TrimSpace(node.Material.Value)
	}
	return p, nil
}

const productsPageQuery = `
query productsPage($first: Int!, $after: String, $query: String) {
    products(first: $first, after: $after, query: $query) {
        pageInfo {
            hasNextPage
            endCursor
        }
        edges {
            node {
                id
                title
                descriptionHtml
                productType
                status
                images(first: 10) {
                    edges {
                        node {
                            url
                        }
                    }
                }
                variants(first: 1) {
                    edges {
                        node {
                            sku
                            price
                        }
                    }
                }
                material: metafield(namespace: "custom", key: "material") {
                    value
                }
            }
        }
    }
}`

// ProductsPage walks the catalog one page at a time. The returned cursor is
// empty once the last page has been read.
func (c *Client) ProductsPage(ctx context.Context, first int, after, query string) ([]Product, string, error) {
	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}
	if query != "" {
		vars["query"] = query
	}
	data, err := c.Execute(ctx, productsPageQuery, vars)
	if err != nil {
		return nil, "", err
	}

	var resp struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Edges []struct {
				Node struct {
					ID              string `json:"id"`
					Title           string `json:"title"`
					DescriptionHTML string `json:"descriptionHtml"`
					ProductType     string `json:"productType"`
					Status          string `json:"status"`
					Images          struct {
						Edges []struct {
							Node struct {
								URL string `json:"url"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
					Variants struct {
						Edges []struct {
							Node struct {
								SKU   string `json:"sku"`
								Price string `json:"price"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
					Material *struct {
						Value string `json:"value"`
					} `json:"material"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, "", fmt.Errorf("unmarshal products page: %w", err)
	}

	products := make([]Product, 0, len(resp.Products.Edges))
	for _, edge := range resp.Products.Edges {
		node := edge.Node
		p := Product{
			ID:              node.ID,
			Title:           node.Title,
			DescriptionHTML: node.DescriptionHTML,
			ProductType:     node.ProductType,
			Status:          node.Status,
		}
		for _, e := range node.Images.Edges {
			p.ImageURLs = append(p.ImageURLs, e.Node.URL)
		}
		if len(node.Variants.Edges) > 0 {
			p.SKU = node.Variants.Edges[0].Node.SKU
			p.Price = node.Variants.Edges[0].Node.Price
		}
		if node.Material != nil {
			p.MaterialGID = strings.TrimSpace(node.Material.Value)
		}
		products = append(products, p)
	}

	cursor := ""
	if resp.Products.PageInfo.HasNextPage {
		cursor = resp.Products.PageInfo.EndCursor
	}
	return products, cursor, nil
}

const productUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
    productUpdate(input: $input) {
        product {
            id
        }
        userErrors {
            field
            message
        }
    }
}`

// UpdateProductContent writes a new title and description back to the store.
func (c *Client) UpdateProductContent(ctx context.Context, productID, title, descriptionHTML string) error {
	data, err := c.Execute(ctx, productUpdateMutation, map[string]any{
		"input": map[string]any{
			"id":              productID,
			"title":           title,
			"descriptionHtml": descriptionHTML,
		},
	})
	if err != nil {
		return err
	}
	return userErrorsFrom(data, "productUpdate")
}

// MetafieldInput is one entry of a metafieldsSet mutation.
type MetafieldInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

const metafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
    metafieldsSet(metafields: $metafields) {
        metafields {
            id
            namespace
            key
        }
        userErrors {
            field
            message
            code
        }
    }
}`

// SetMetafields writes multiple metafields in one request.
func (c *Client) SetMetafields(ctx context.Context, metafields []MetafieldInput) error {
	if len(metafields) == 0 {
		return nil
	}
	data, err := c.Execute(ctx, metafieldsSetMutation, map[string]any{
		"metafields": metafields,
	})
	if err != nil {
		return err
	}
	return userErrorsFrom(data, "metafieldsSet")
}

// userErrorsFrom surfaces the first userError of a mutation payload.
func userErrorsFrom(data json.RawMessage, operation string) error {
	var resp map[string]struct {
		UserErrors []struct {
			Message string   `json:"message"`
			Field   []string `json:"field"`
		} `json:"userErrors"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("unmarshal %s: %w", operation, err)
	}
	op, ok := resp[operation]
	if !ok {
		return nil
	}
	if len(op.UserErrors) > 0 {
		e := op.UserErrors[0]
		return fmt.Errorf("%s user error on %s: %s", operation, strings.Join(e.Field, "."), e.Message)
	}
	return nil
}
