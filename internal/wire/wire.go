// Package wire 提供依赖装配
// 按层装配：数据层（存储客户端和仓储）、应用层（流水线和检索）、接口层（处理器和路由）。
package wire

import (
	"context"
	"fmt"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"ecm-api/internal/application/classify"
	"ecm-api/internal/application/ingest"
	"ecm-api/internal/application/search"
	"ecm-api/internal/config"
	"ecm-api/internal/domain/repository"
	infraembedding "ecm-api/internal/infrastructure/embedding"
	"ecm-api/internal/infrastructure/extract"
	"ecm-api/internal/infrastructure/messaging"
	"ecm-api/internal/infrastructure/persistence/milvus"
	"ecm-api/internal/infrastructure/persistence/postgres"
	"ecm-api/internal/infrastructure/persistence/redis"
	"ecm-api/internal/infrastructure/storage"
	"ecm-api/internal/interfaces/http/handler"
	"ecm-api/internal/interfaces/http/router"
	"ecm-api/internal/nlp"
	"ecm-api/pkg/logger"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	PgClient            *postgres.Client
	TxManager           *postgres.TxManager
	UserRepo            repository.UserRepository
	OfficeRepo          repository.OfficeRepository
	PositionRepo        repository.PositionRepository
	DocumentRepo        repository.DocumentRepository
	AccessLogRepo       repository.AccessLogRepository
	DownloadRequestRepo repository.DownloadRequestRepository

	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	Producer *messaging.Producer

	// MilvusClient 和 VectorRepo 在向量库未启用或连接失败时为 nil
	MilvusClient *milvus.Client
	VectorRepo   repository.VectorRepository

	Store *storage.LocalStore
}

// NewDataLayer 初始化数据层，返回清理函数
func NewDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		pgClient.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	store, err := storage.NewLocalStore(&cfg.Storage.Local)
	if err != nil {
		redisClient.Close()
		pgClient.Close()
		return nil, nil, fmt.Errorf("failed to init storage: %w", err)
	}

	dl := &DataLayer{
		PgClient:            pgClient,
		TxManager:           postgres.NewTxManager(pgClient),
		UserRepo:            postgres.NewUserRepo(pgClient),
		OfficeRepo:          postgres.NewOfficeRepo(pgClient),
		PositionRepo:        postgres.NewPositionRepo(pgClient),
		DocumentRepo:        postgres.NewDocumentRepo(pgClient),
		AccessLogRepo:       postgres.NewAccessLogRepo(pgClient),
		DownloadRequestRepo: postgres.NewDownloadRequestRepo(pgClient),
		RedisClient:         redisClient,
		Cache:               redis.NewCache(redisClient),
		RateLimiter:         redis.NewRateLimiter(redisClient),
		Store:               store,
	}

	if cfg.Messaging.Enabled {
		dl.Producer = messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
	}

	// 向量库可选：连接失败只降级，不阻断启动
	if cfg.Vector.Milvus.Enabled {
		milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
		if err != nil {
			logger.Warn(ctx, "milvus unavailable, semantic search falls back to scan", "error", err)
		} else {
			dl.MilvusClient = milvusClient
			dl.VectorRepo = milvus.NewRepository(milvusClient, cfg.Embedding.Dimension)
		}
	}

	cleanup := func() {
		if dl.MilvusClient != nil {
			dl.MilvusClient.Close()
		}
		redisClient.Close()
		pgClient.Close()
	}
	return dl, cleanup, nil
}

// App 应用层依赖容器
type App struct {
	Data        *DataLayer
	Pipeline    nlp.Pipeline
	Extractor   *extract.Extractor
	Classifier  *classify.Classifier
	Embedder    einoembedding.Embedder
	IngestSvc   *ingest.Service
	Engine      *search.Engine
	Highlighter *search.Highlighter
	Router      *router.Router
}

// NewApp 装配整个应用
func NewApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	dl, cleanup, err := NewDataLayer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := infraembedding.NewEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to init embedder: %w", err)
	}

	pipeline := nlp.NewPipeline()
	extractor := extract.NewExtractor(&cfg.OCR)
	classifier := classify.NewClassifier(pipeline)

	ingestSvc := ingest.NewService(
		dl.DocumentRepo,
		dl.VectorRepo,
		extractor,
		classifier,
		embedder,
		dl.Store,
		ingest.Config{
			MaxEmbedChars: cfg.Embedding.MaxChars,
			Provider:      cfg.Embedding.Provider,
		},
	)

	engine := search.NewEngine(dl.DocumentRepo, dl.VectorRepo, embedder, search.Config{
		ScoreThreshold: cfg.Search.ScoreThreshold,
		DefaultTopK:    cfg.Search.DefaultTopK,
	})
	highlighter := search.NewHighlighter(pipeline, embedder, search.HighlightConfig{
		ScoreThreshold: cfg.Search.HighlightThreshold,
		TopK:           cfg.Search.HighlightTopK,
	})

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(dl.PgClient, dl.RedisClient, dl.MilvusClient),
		Auth:     handler.NewAuthHandler(dl.UserRepo, cfg.Security.JWT),
		User:     handler.NewUserHandler(dl.UserRepo),
		Office:   handler.NewOfficeHandler(dl.OfficeRepo),
		Position: handler.NewPositionHandler(dl.PositionRepo),
		Document: handler.NewDocumentHandler(
			dl.DocumentRepo, dl.DownloadRequestRepo, dl.AccessLogRepo,
			dl.VectorRepo, dl.Store, dl.Cache, dl.Producer, ingestSvc,
		),
		DownloadRequest: handler.NewDownloadRequestHandler(dl.DownloadRequestRepo, dl.DocumentRepo),
		Search:          handler.NewSearchHandler(engine, highlighter, dl.DocumentRepo, dl.AccessLogRepo, dl.Cache),
		AccessLog:       handler.NewAccessLogHandler(dl.AccessLogRepo),
	}

	app := &App{
		Data:        dl,
		Pipeline:    pipeline,
		Extractor:   extractor,
		Classifier:  classifier,
		Embedder:    embedder,
		IngestSvc:   ingestSvc,
		Engine:      engine,
		Highlighter: highlighter,
		Router:      router.New(cfg, handlers, dl.RateLimiter),
	}
	return app, cleanup, nil
}
