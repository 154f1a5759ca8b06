package bootstrap

import (
	"log"

	"security-training-be/internal/config"
	"security-training-be/internal/controller"
	"security-training-be/internal/pkg/logger"
	"security-training-be/internal/repository/implementation"
	"security-training-be/internal/repository/memory"
	"security-training-be/internal/service"
	"security-training-be/pkg/embedding"
	"security-training-be/pkg/llm/ollama"
	"security-training-be/pkg/rag/generator"
	"security-training-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WizardController    controller.IWizardController
	KnowledgeController controller.IKnowledgeController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the session expiry sweeper in main.go.
	WizardService service.IWizardService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.ChatModel)
	log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.ChatModel)

	// 4. Repositories
	sessionRepo := memory.NewSessionRepository()
	knowledgeRepo := implementation.NewKnowledgeRepository(db)
	transcriptRepo := implementation.NewTranscriptRepository(db)
	attemptRepo := implementation.NewGenerationAttemptRepository(db)

	// 5. RAG components
	searchGateway := search.NewGateway(embeddingProvider, knowledgeRepo, sysLogger)
	orchestrator := generator.NewOrchestrator(
		searchGateway,
		llmProvider,
		sysLogger,
		cfg.Wizard.FactualityCheck,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Wizard.IngestTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Wizard.IngestTopic,
		knowledgeRepo,
		embeddingProvider,
		sysLogger,
	)

	wizardService := service.NewWizardService(
		sessionRepo,
		orchestrator,
		transcriptRepo,
		attemptRepo,
		sysLogger,
		chatLogger,
	)
	knowledgeService := service.NewKnowledgeService(publisherService, knowledgeRepo)

	// 7. Controllers
	return &Container{
		WizardController:    controller.NewWizardController(wizardService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),

		ConsumerService: consumerService,
		WizardService:   wizardService,
	}
}
