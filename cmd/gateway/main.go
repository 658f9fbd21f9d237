package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"hybridgate/internal/adapter/api"
	"hybridgate/internal/adapter/client"
	"hybridgate/internal/adapter/store"
	"hybridgate/internal/config"
	"hybridgate/internal/domain/repository"
	"hybridgate/internal/usecase"
)

const embeddingDim = 768

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// External provider chain, in priority order.
	var providers []repository.ExternalProvider
	if cfg.GrokAPIKey != "" {
		providers = append(providers, client.NewGrokClient(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.GrokModel))
	}
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, client.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}

	var genaiClient *genai.Client
	if cfg.GoogleProject != "" {
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			Project:  cfg.GoogleProject,
			Location: cfg.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		})
		if err != nil {
			logger.Fatal("failed to init genai client", zap.Error(err))
		}
		providers = append(providers, client.NewGeminiClientFromClient(genaiClient, cfg.GeminiModel))
	}
	if len(providers) == 0 {
		logger.Warn("no external providers configured, escalations will fall back locally")
	}
	chain := usecase.NewProviderChain(providers, logger)

	cache := buildCache(ctx, cfg, genaiClient, logger)

	probe := client.NewHTTPProbe(cfg.ProbeURL, cfg.ProbeTimeout)

	classifier := usecase.NewClassifier(logger)
	evaluator := usecase.NewConfidenceEvaluator(cfg.Thresholds, logger)
	gateway := usecase.NewEscalationGateway(evaluator, cache, chain, probe, logger)

	// Background warm-up so the first escalation doesn't pay the full
	// cold-start cost.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if probe.Online(warmCtx) {
			logger.Info("connectivity probe passed, external providers reachable")
		} else {
			logger.Warn("connectivity probe failed, starting in offline mode")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "Hybrid Escalation Gateway",
	})

	handler := api.NewGatewayHandler(classifier, evaluator, gateway, cache, probe, chain.Names())
	api.SetupRouter(app, handler)

	logger.Info("gateway listening",
		zap.String("port", cfg.Port),
		zap.Strings("providers", chain.Names()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildCache(ctx context.Context, cfg *config.Config, genaiClient *genai.Client, logger *zap.Logger) repository.ResponseCache {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedisCache(rdb, cfg.CacheTTL, logger)

	case "qdrant":
		if genaiClient == nil {
			logger.Warn("qdrant cache backend needs Google credentials for embeddings, cache disabled")
			return nil
		}
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			logger.Fatal("failed to connect to qdrant", zap.Error(err))
		}
		embedder := client.NewEmbedderFromClient(genaiClient, cfg.EmbeddingModel)
		docStore := store.NewQdrantDocumentStore(qClient, cfg.QdrantCollection, embedder, cfg.CacheTTL, logger)
		if err := docStore.InitCollection(ctx, embeddingDim); err != nil {
			logger.Fatal("failed to init qdrant collection", zap.Error(err))
		}
		return usecase.NewCacheManager(docStore, cfg.CacheTTL, logger)

	case "", "none":
		logger.Info("response cache disabled")
		return nil

	default:
		logger.Fatal("unknown cache backend", zap.String("backend", cfg.CacheBackend))
		return nil
	}
}
