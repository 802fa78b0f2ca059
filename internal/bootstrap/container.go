package bootstrap

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"haruhi-agent-be/internal/config"
	"haruhi-agent-be/internal/controller"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/internal/pkg/mailer"
	"haruhi-agent-be/internal/pkg/secretbox"
	"haruhi-agent-be/internal/repository/memory"
	"haruhi-agent-be/internal/repository/unitofwork"
	"haruhi-agent-be/internal/service"
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"
	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/llm/factory"
	"haruhi-agent-be/pkg/travel"
	"haruhi-agent-be/pkg/websearch"

	pktNats "haruhi-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const searchCacheTTL = 10 * time.Minute

type Container struct {
	// Controllers
	AgentController        controller.IAgentController
	OrchestratorController controller.IOrchestratorController
	CoordinatorController  controller.ICoordinatorController
	WebSearchController    controller.IWebSearchController
	CalendarController     controller.ICalendarController
	CircloController       controller.ICircloController
	MarketingController    controller.IMarketingController
	SystemController       controller.ISystemController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

// NewContainer wires everything. db may be nil; preferences and bookings then
// live in process memory.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "audit.log"))
	c.Logger = sysLogger

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("BOOTSTRAP", "No database configured, using the in-memory store", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var bus service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			bus = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Collaborators
	gateway := newGateway(cfg, sysLogger)

	searchClient := websearch.NewClient(cfg.Keys.SerpApi, websearch.WithCache(newSearchCache(cfg, sysLogger, c), searchCacheTTL))

	circloClient := circlo.NewClient(cfg.Circlo.BaseURL, cfg.Circlo.Token, cfg.Circlo.Timeout, sysLogger)
	c.closers = append(c.closers, func() { _ = circloClient.Close() })
	dialCirclo := func() *circlo.Client {
		return circlo.NewClient(cfg.Circlo.BaseURL, cfg.Circlo.Token, cfg.Circlo.Timeout, sysLogger)
	}

	bookingPublisher := service.NewBookingPublisher(service.NewPublisherService(cfg.Agent.BookingTopic, pubSub))

	tokenStore := service.NewPreferenceTokenStore(uowFactory, secretbox.NewSealer(cfg.App.TokenEncryptionKey))
	calendarClient := calendar.NewClient(
		calendar.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL),
		cfg.Google.CalendarBaseURL,
		tokenStore,
		bookingPublisher,
		calendar.WithLogger(sysLogger),
	)

	// 4. Core pipeline
	slots, err := agent.LoadSlotPolicy(cfg.Agent.SlotTimezone)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Unknown slot timezone, using UTC", map[string]interface{}{"error": err.Error()})
	}
	actions := agent.NewActions(
		searchClient,
		calendarClient,
		func() (agent.PostCollaborator, error) { return dialCirclo(), nil },
		sysLogger,
		agent.WithActionTimeout(cfg.Agent.ActionTimeout),
		agent.WithSlotPolicy(slots),
	)
	pipeline := agent.New(gateway, actions, service.NewAuditService(auditLogger, bus), sysLogger)

	flights, hotels := travel.DefaultHelpers(cfg.Agent.HelperDelay)
	orchestrator := travel.NewOrchestrator(flights, hotels,
		travel.WithSearch(searchClient),
		travel.WithScheduler(calendarClient),
		travel.WithPoster(func() (travel.Poster, error) { return dialCirclo(), nil }),
		travel.WithSummarizer(gateway),
		travel.WithBookingPublisher(bookingPublisher),
		travel.WithLogger(sysLogger),
	)
	coordinator := travel.NewCoordinator(travel.PlatformA(cfg.Agent.HelperDelay), travel.PlatformB(cfg.Agent.HelperDelay))

	// 5. Services
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Agent.BookingTopic, uowFactory, bus, sysLogger)

	agentService := service.NewAgentService(pipeline, coordinator, cfg.Agent.DefaultUserID, sysLogger)
	orchestratorService := service.NewOrchestratorService(orchestrator, uowFactory)
	coordinatorService := service.NewCoordinatorService(coordinator)
	webSearchService := service.NewWebSearchService(searchClient)
	calendarService := service.NewCalendarService(
		calendarClient,
		memory.NewOAuthStateRepository(15*time.Minute),
		circloClient,
		emailService,
		sysLogger,
	)
	circloService := service.NewCircloService(circloClient, cfg.Circlo.Token)
	marketingService := service.NewMarketingService(
		func() (service.AgentRegistrar, error) { return dialCirclo(), nil },
		sysLogger,
	)
	systemService := service.NewSystemService(gateway, searchClient.HasProvider(), calendarService, circloClient.HasToken())

	// 6. Controllers
	c.AgentController = controller.NewAgentController(agentService)
	c.OrchestratorController = controller.NewOrchestratorController(orchestratorService)
	c.CoordinatorController = controller.NewCoordinatorController(coordinatorService)
	c.WebSearchController = controller.NewWebSearchController(webSearchService)
	c.CalendarController = controller.NewCalendarController(calendarService)
	c.CircloController = controller.NewCircloController(circloService, cfg.App.JwtSecret)
	c.MarketingController = controller.NewMarketingController(marketingService)
	c.SystemController = controller.NewSystemController(systemService, cfg.App.StaticDir)

	return c
}

// newGateway never fails: a provider that cannot be built leaves the gateway
// unavailable with the reason recorded, and the webhook degrades to echoes.
func newGateway(cfg *config.Config, sysLogger logger.ILogger) *llm.Gateway {
	apiKey, baseURL := cfg.LLMCredentials()

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, baseURL, apiKey)
	if err != nil {
		gw := llm.NewGateway(nil, apiKey)
		gw.MarkUnavailable(err.Error())
		sysLogger.Warn("BOOTSTRAP", "LLM provider unavailable", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    gw.LastError(),
		})
		return gw
	}

	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return llm.NewGateway(provider, apiKey)
}

// newSearchCache prefers Redis and falls back to an in-process cache when
// Redis is not configured or does not answer.
func newSearchCache(cfg *config.Config, sysLogger logger.ILogger, c *Container) websearch.Cache {
	if cfg.App.RedisURL == "" {
		return websearch.NewMemoryCache(searchCacheTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis, caching search results in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return websearch.NewMemoryCache(searchCacheTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return websearch.NewRedisCache(rdb)
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
