package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"jewel-backoffice-be/internal/config"
	"jewel-backoffice-be/internal/controller"
	"jewel-backoffice-be/internal/handler"
	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/internal/pkg/mailer"
	"jewel-backoffice-be/internal/repository/memory"
	"jewel-backoffice-be/internal/repository/unitofwork"
	"jewel-backoffice-be/internal/service"
	"jewel-backoffice-be/internal/websocket"

	"jewel-backoffice-be/pkg/agent/rewriter"
	"jewel-backoffice-be/pkg/agent/writer"
	"jewel-backoffice-be/pkg/drive"
	"jewel-backoffice-be/pkg/llm"
	"jewel-backoffice-be/pkg/llm/factory"
	pktNats "jewel-backoffice-be/pkg/nats"
	"jewel-backoffice-be/pkg/nykaa"
	"jewel-backoffice-be/pkg/search"
	"jewel-backoffice-be/pkg/shopify"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	WriterController   controller.IWriterController
	RewriterController controller.IRewriterController
	ExportController   controller.IExportController
	BillingController  controller.IBillingController
	AdminController    controller.IAdminController

	// Background services (run from main)
	ConsumerService service.IConsumerService

	// WebSockets
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process work queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM and search stack
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Keys.Groq,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	llmProvider = llm.WithRetry(llmProvider, llm.DefaultRetryConfig())
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	searchClient := search.NewFallbackClient(
		search.NewSerperClient(cfg.Keys.Serper),
		search.NewDuckDuckGoClient(),
	)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	progressRepo := memory.NewProgressRepository()

	// 5. Store integrations
	shopifyClient := shopify.NewClient(cfg.Shopify.ShopURL, cfg.Shopify.APIVersion, cfg.Shopify.AccessToken)
	materialResolver := shopify.NewMaterialResolver(shopifyClient)

	eanRegistry := nykaa.NewRegistry()
	exporter := nykaa.NewExporter(eanRegistry)

	driveDownloader := newDriveDownloader(cfg, sysLogger)
	cdnUploader := drive.NewCDNUploader(shopifyClient, sysLogger)

	// 6. Content pipeline
	delays := writer.DefaultDelays()
	delays.Generate = cfg.Pipeline.GenerateDelay
	pipeline := writer.NewPipeline(llmProvider, searchClient, sysLogger, delays)

	productRewriter := rewriter.New(llmProvider, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.GenerationTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.GenerationTopic,
		uowFactory,
		pipeline,
		cfg.Pipeline.KeywordCSVPath,
		wsHub,
		progressRepo,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	writerService := service.NewWriterService(uowFactory, publisherService, natsPub, progressRepo)
	rewriterService := service.NewRewriterService(productRewriter, shopifyClient, materialResolver, eanRegistry, cfg.Pipeline.RewriteThrottle, sysLogger)
	exportService := service.NewExportService(shopifyClient, materialResolver, exporter, driveDownloader, cdnUploader, emailService, natsPub, sysLogger)
	billingService := service.NewBillingService(uowFactory, emailService, natsPub, cfg.Billing)
	pricingService := service.NewPricingService(cfg.Billing.MarginPercent)
	adminService := service.NewAdminService(sysLogger)

	auditService := service.NewAuditService(natsSub, sysLogger)
	if err := auditService.Start(); err != nil {
		log.Printf("[WARN] Failed to start event audit trail: %v", err)
	}

	progressHandler := handler.NewProgressHandler(wsHub, progressRepo, wsLogger)

	// 8. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		WriterController:   controller.NewWriterController(writerService),
		RewriterController: controller.NewRewriterController(rewriterService),
		ExportController:   controller.NewExportController(exportService),
		BillingController:  controller.NewBillingController(billingService, pricingService),
		AdminController:    controller.NewAdminController(adminService),

		ConsumerService: consumerService,

		ProgressHandler: progressHandler,
		WebSocketHub:    wsHub,
	}
}

// newDriveDownloader upgrades to an authenticated client when service
// account credentials are configured.
func newDriveDownloader(cfg *config.Config, log logger.ILogger) *drive.Downloader {
	if cfg.Keys.DriveCredentials == "" {
		return drive.NewDownloader(log)
	}

	creds, err := os.ReadFile(cfg.Keys.DriveCredentials)
	if err != nil {
		log.Warn("Bootstrap", "Drive credentials unreadable, using anonymous downloads", map[string]interface{}{"error": err.Error()})
		return drive.NewDownloader(log)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dl, err := drive.NewServiceAccountDownloader(ctx, creds, log)
	if err != nil {
		log.Warn("Bootstrap", "Drive auth failed, using anonymous downloads", map[string]interface{}{"error": err.Error()})
		return drive.NewDownloader(log)
	}
	return dl
}
