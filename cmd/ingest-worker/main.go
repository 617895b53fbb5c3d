// Package main 文档处理工作进程入口
// 消费文档入库流，执行 提取 -> 分类 -> 向量化 流水线。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ecm-api/internal/application/classify"
	"ecm-api/internal/application/ingest"
	"ecm-api/internal/config"
	infraembedding "ecm-api/internal/infrastructure/embedding"
	"ecm-api/internal/infrastructure/extract"
	"ecm-api/internal/infrastructure/messaging"
	"ecm-api/internal/nlp"
	"ecm-api/internal/wire"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "ingest-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	dl, cleanup, err := wire.NewDataLayer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to init data layer", err)
	}
	defer cleanup()

	embedder, err := infraembedding.NewEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	pipeline := nlp.NewPipeline()
	ingestSvc := ingest.NewService(
		dl.DocumentRepo,
		dl.VectorRepo,
		extract.NewExtractor(&cfg.OCR),
		classify.NewClassifier(pipeline),
		embedder,
		dl.Store,
		ingest.Config{
			MaxEmbedChars: cfg.Embedding.MaxChars,
			Provider:      cfg.Embedding.Provider,
		},
	)

	consumer := messaging.NewConsumer(dl.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamDocumentIngest,
		Group:        messaging.ConsumerGroupIngestWorker,
		ConsumerName: consumerName(),
		BlockTimeout: cfg.Messaging.RedisStream.BlockTimeout,
		RetryLimit:   cfg.Messaging.RedisStream.RetryLimit,
	})

	consumer.RegisterHandler("document_ingest", func(msgCtx context.Context, msg *messaging.Message) error {
		var job messaging.IngestJobMessage
		if err := msg.UnmarshalPayload(&job); err != nil {
			return err
		}
		if job.RequestID != "" {
			msgCtx = logger.WithContext(msgCtx, logger.RequestIDKey, job.RequestID)
		}
		return ingestSvc.Process(msgCtx, job.DocumentID)
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	go consumer.MonitorDLQ(ctx, 100)

	logger.Info(ctx, "ingest-worker started",
		"stream", string(messaging.StreamDocumentIngest),
		"group", string(messaging.ConsumerGroupIngestWorker),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down ingest-worker...")
	consumer.Stop()
	logger.Info(ctx, "ingest-worker exited")
}

// consumerName 用主机名区分同组内消费者实例
func consumerName() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "ingest-" + uuid.NewString()[:8]
	}
	return "ingest-" + hostname
}
