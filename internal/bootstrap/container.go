package bootstrap

import (
	"context"
	"log"
	"time"

	"interview-ready-be/internal/config"
	"interview-ready-be/internal/controller"
	"interview-ready-be/internal/pkg/logger"
	"interview-ready-be/internal/repository/unitofwork"
	"interview-ready-be/internal/service"
	"interview-ready-be/pkg/assessor/gemini"
	"interview-ready-be/pkg/events"

	pktNats "interview-ready-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	InterviewController controller.IInterviewController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Provider
	// One Gemini client backs generation, evaluation and scoring.
	aiProvider := gemini.NewProvider(cfg.Keys.GoogleGemini, cfg.Ai.GeminiModel, cfg.Ai.CallTimeout)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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
	deduper := events.NewDeduper(rdb, 24*time.Hour)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.SessionCompletedTopic, pubSub)

	var eventPub events.Publisher
	if natsPub != nil {
		eventPub = natsPub
	}

	interviewService := service.NewInterviewService(
		uowFactory,
		aiProvider,
		aiProvider,
		publisherService,
		sysLogger,
		cfg.Ai.CallTimeout,
	)
	feedbackService := service.NewFeedbackService(
		uowFactory,
		aiProvider,
		eventPub,
		deduper,
		sysLogger,
		cfg.Ai.CallTimeout,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.SessionCompletedTopic,
		feedbackService,
		sysLogger,
	)

	// 5. Controllers
	interviewController := controller.NewInterviewController(interviewService, feedbackService)

	return &Container{
		InterviewController: interviewController,
		ConsumerService:     consumerService,
		Logger:              sysLogger,
		natsPub:             natsPub,
		rdb:                 rdb,
	}
}

func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
