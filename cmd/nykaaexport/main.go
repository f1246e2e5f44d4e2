package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"jewel-backoffice-be/internal/config"
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/internal/pkg/mailer"
	"jewel-backoffice-be/internal/service"
	"jewel-backoffice-be/pkg/drive"
	"jewel-backoffice-be/pkg/nykaa"
	"jewel-backoffice-be/pkg/shopify"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Standalone catalog export. Talks straight to the store API, no
// database required, so it can run from a laptop or a cron job.
func main() {
	var (
		output    = flag.String("o", "", "output file (default nykaa-export-<date>.csv)")
		skus      = flag.String("skus", "", "comma separated SKU list, empty exports the whole active catalog")
		emailTo   = flag.String("email", "", "email the sheet to this address as well")
		skipDrive = flag.Bool("skip-drive", false, "keep Drive links as-is instead of rehosting images")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		color.Yellow("No .env file found, using system env")
	}
	cfg := config.Load()

	if cfg.Shopify.ShopURL == "" || cfg.Shopify.AccessToken == "" {
		color.Red("SHOPIFY_SHOP_URL and SHOPIFY_ACCESS_TOKEN must be set")
		os.Exit(1)
	}

	log := logger.NewIsolatedLogger("logs/nykaaexport.log")
	defer log.Sync()

	client := shopify.NewClient(cfg.Shopify.ShopURL, cfg.Shopify.APIVersion, cfg.Shopify.AccessToken)
	materials := shopify.NewMaterialResolver(client)
	exporter := nykaa.NewExporter(nykaa.NewRegistry())

	var emailService mailer.IEmailService
	if *emailTo != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}

	var downloader *drive.Downloader
	var uploader *drive.CDNUploader
	if !*skipDrive {
		downloader = drive.NewDownloader(log)
		uploader = drive.NewCDNUploader(client, log)
	}

	exportService := service.NewExportService(client, materials, exporter, downloader, uploader, emailService, nil, log)

	req := &dto.ExportNykaaRequest{
		EmailTo:   *emailTo,
		SkipDrive: *skipDrive,
	}
	if *skus != "" {
		for _, sku := range strings.Split(*skus, ",") {
			if sku = strings.TrimSpace(sku); sku != "" {
				req.SKUs = append(req.SKUs, sku)
			}
		}
	}

	color.Cyan("Exporting %s catalog to Nykaa sheet...", cfg.Shopify.ShopURL)

	resp, err := exportService.ExportNykaa(context.Background(), req)
	if err != nil {
		color.Red("Export failed: %v", err)
		os.Exit(1)
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("nykaa-export-%s.csv", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(path, []byte(resp.CSV), 0o644); err != nil {
		color.Red("Failed to write %s: %v", path, err)
		os.Exit(1)
	}

	color.Green("Wrote %d rows to %s (%d products fetched)", resp.ExportedRows, path, resp.TotalProducts)

	if len(resp.SkippedRows) > 0 {
		color.Yellow("Skipped %d products:", len(resp.SkippedRows))
		for _, skipped := range resp.SkippedRows {
			color.Yellow("  %s: %s", skipped.SKU, strings.Join(skipped.Issues, "; "))
		}
	}
	if resp.EmailedTo != "" {
		color.Green("Emailed sheet to %s", resp.EmailedTo)
	}
}
