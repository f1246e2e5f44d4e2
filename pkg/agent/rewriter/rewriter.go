// Package rewriter generates Nykaa marketplace names and descriptions for
// existing catalog products in a single LLM pass per product.
package rewriter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/pkg/agent/action"
	"jewel-backoffice-be/pkg/llm"
)

// Product is one catalog item queued for rewriting. Zero-value fields fall
// back to catalog-wide defaults at prompt time.
type Product struct {
	SKU                string
	CurrentName        string
	CurrentDescription string
	ProductType        string
	Material           string
	MetalType          string
	Color              string
	Occasion           string
	Price              float64
	SetContents        []string
}

// Result carries the generated content next to the input it came from, so
// batch callers keep index consistency even for failed items.
type Result struct {
	Product
	GeneratedName        string
	GeneratedDescription string
	Err                  error
}

// Rewriter runs the single-stage rewrite workflow.
type Rewriter struct {
	llm    llm.LLMProvider
	parser *action.Parser
	log    logger.ILogger

	// throttle runs before each LLM call; batchDelay between batch items.
	throttle   time.Duration
	batchDelay time.Duration

	// sleep is injectable for tests. Defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(provider llm.LLMProvider, log logger.ILogger) *Rewriter {
	return &Rewriter{
		llm:        provider,
		parser:     action.NewParser(),
		log:        log,
		throttle:   10 * time.Second,
		batchDelay: time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			if d <= 0 {
				return nil
			}
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

var (
	nameFieldRe = regexp.MustCompile(`"name"\s*:\s*"([^"]*)"`)
	descFieldRe = regexp.MustCompile(`"description"\s*:\s*"([^"]*)"`)
)

// Rewrite generates a name and description for one product. usedNames are
// listed in the prompt so the model avoids repeating earlier output.
func (r *Rewriter) Rewrite(ctx context.Context, p Product, usedNames []string) Result {
	res := Result{Product: p}

	if err := r.sleep(ctx, r.throttle); err != nil {
		res.Err = err
		return res
	}

	prompt := rewritePrompt(p, usedNames)
	response, err := r.llm.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		res.Err = fmt.Errorf("llm generation failed: %w", err)
		return res
	}

	name, desc := r.extract(response)
	if name == "" || desc == "" {
		res.Err = fmt.Errorf("empty name or description in response")
		return res
	}

	res.GeneratedName = name
	res.GeneratedDescription = desc
	r.log.Info("NykaaRewriter", "rewrote product", map[string]interface{}{
		"sku":  p.SKU,
		"name": name,
	})
	return res
}

// extract pulls the name and description from the model response, falling
// back to field-level regex extraction when structured parsing yields
// nothing usable.
func (r *Rewriter) extract(response string) (string, string) {
	parsed := r.parser.Recover(response)
	name, _ := parsed.ActionInput["name"].(string)
	desc, _ := parsed.ActionInput["description"].(string)
	if name != "" && desc != "" {
		return strings.TrimSpace(name), strings.TrimSpace(desc)
	}

	nameMatch := nameFieldRe.FindStringSubmatch(response)
	descMatch := descFieldRe.FindStringSubmatch(response)
	if nameMatch != nil && descMatch != nil {
		return strings.TrimSpace(nameMatch[1]), strings.TrimSpace(descMatch[1])
	}
	return "", ""
}

// RewriteBatch processes products sequentially with a pacing delay. Failed
// items keep their slot in the returned slice, and each generated name joins
// the used list for the items after it.
func (r *Rewriter) RewriteBatch(ctx context.Context, products []Product, usedNames []string) []Result {
	used := append([]string{}, usedNames...)
	results := make([]Result, 0, len(products))

	for i, p := range products {
		res := r.Rewrite(ctx, p, used)
		results = append(results, res)

		if res.Err != nil {
			r.log.Error("NykaaRewriter", "rewrite failed", map[string]interface{}{
				"sku":   p.SKU,
				"error": res.Err.Error(),
			})
		} else if res.GeneratedName != "" {
			used = append(used, res.GeneratedName)
		}

		if i < len(products)-1 {
			if err := r.sleep(ctx, r.batchDelay); err != nil {
				// Context gone; mark the rest as unprocessed.
				for _, rest := range products[i+1:] {
					results = append(results, Result{Product: rest, Err: err})
				}
				break
			}
		}
	}
	return results
}

func rewritePrompt(p Product, usedNames []string) string {
	productType := withDefault(p.ProductType, "Necklace")
	material := withDefault(p.Material, "Kundan Polki")
	metalType := withDefault(p.MetalType, "Antique Gold")
	color := withDefault(p.Color, "Multicolor")
	occasion := withDefault(p.Occasion, "Wedding")
	price := p.Price
	if price == 0 {
		price = 5000
	}
	used := "None"
	if len(usedNames) > 0 {
		used = strings.Join(usedNames, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an expert jewelry product naming and description writer for the Nykaa marketplace.\n")
	b.WriteString("You specialize in kundan, polki, and traditional Indian jewelry for brides and festive occasions.\n\n")
	fmt.Fprintf(&b, "PRODUCT DETAILS:\n- SKU: %s\n- Category: %s\n- Material: %s\n- Metal Type: %s\n- Color: %s\n- Occasion: %s\n- Price: Rs. %.0f\n- Components: %s\n\n",
		p.SKU, productType, material, metalType, color, occasion, price, strings.Join(p.SetContents, ", "))
	fmt.Fprintf(&b, "PREVIOUSLY USED NAMES (NEVER REUSE): %s\n\n", used)
	b.WriteString(`NAME REQUIREMENTS (max 100 characters):
- Build the name around a historical Indian queen or Sanskrit name, for
  example "Ratnakala Emerald Kundan Bridal Set" or "Meerabai Heritage Polki
  Choker".
- Formats: "QueenName: [Type] [Material] [Descriptor]", "QueenName [Material]
  [Type]" or "[Descriptor] [Material] [Type] by QueenName".
- Use grander names for products above Rs. 10,000.
- The combination must be completely original.

DESCRIPTION REQUIREMENTS (300-500 characters, plain text, exactly 2 sentences):
- Sentence 1 introduces the product, its finish and features, and connects
  the chosen name's heritage to the occasion.
- Sentence 2 covers craftsmanship and color, using authentic terms such as
  jadau, meenakari, kundan, polki or filigree.

Return ONLY this JSON (no markdown, no backticks):
{
  "action": "generate_product",
  "action_input": {
    "name": "Your Creative Product Name",
    "description": "Your crafted description here"
  }
}
`)
	return b.String()
}

func withDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
