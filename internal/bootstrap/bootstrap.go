package bootstrap

import (
	"context"
	"fmt"

	"github.com/kirillkom/doc-insight/internal/analysis"
	"github.com/kirillkom/doc-insight/internal/config"
	"github.com/kirillkom/doc-insight/internal/core/ports"
	"github.com/kirillkom/doc-insight/internal/core/usecase"
	"github.com/kirillkom/doc-insight/internal/infrastructure/extract"
	"github.com/kirillkom/doc-insight/internal/infrastructure/nlp/spacy"
	"github.com/kirillkom/doc-insight/internal/infrastructure/notify"
	"github.com/kirillkom/doc-insight/internal/infrastructure/ocr/tesseract"
	natsqueue "github.com/kirillkom/doc-insight/internal/infrastructure/queue/nats"
	"github.com/kirillkom/doc-insight/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/doc-insight/internal/infrastructure/resilience"
	"github.com/kirillkom/doc-insight/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue *natsqueue.Queue

	IngestUC  ports.FileIngestor
	SubmitUC  ports.FileSubmitter
	ProcessUC ports.FileProcessor
	ReadUC    ports.FileReader
	InspectUC ports.InlineInspector

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	fileRepo := postgres.NewFileRepository(db)
	if err := fileRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	resultRepo := postgres.NewResultRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubjectPrefix, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init task queue: %w", err)
	}

	lexicons, err := analysis.LoadLexicons()
	if err != nil {
		return nil, fmt.Errorf("load sentiment lexicons: %w", err)
	}

	ocrEngine := tesseract.New(cfg.OCRServiceURL, executor)
	recognizer := spacy.New(cfg.NERServiceURL, executor)

	extractor := extract.New(ocrEngine, cfg.OCRLangHint)
	analyzer := analysis.New(recognizer, lexicons)
	router := usecase.NewRouter(cfg.MaxFileSizeBytes, cfg.ImageExtensions, cfg.TextExtensions)
	retry := resilience.NewRetryPolicy(cfg.RetryMaxAttempts, cfg.RetryBackoff)

	notifiers := []notify.Notifier{notify.NewLog()}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.SiteURL))
	}
	notifier := notify.NewMulti(notifiers...)

	ingestUC := usecase.NewIngestFileUseCase(fileRepo, storage, router)
	submitUC := usecase.NewSubmitFileUseCase(fileRepo, queue, router, cfg.HighPriorityBytes)
	processUC := usecase.NewProcessFileUseCase(fileRepo, resultRepo, storage, extractor, analyzer, queue, notifier, router, retry)
	readUC := usecase.NewReadFileUseCase(fileRepo, resultRepo)
	inspectUC := usecase.NewInspectFileUseCase(extractor, analyzer, router)

	return &App{
		Config: cfg,
		Queue:  queue,

		IngestUC:  ingestUC,
		SubmitUC:  submitUC,
		ProcessUC: processUC,
		ReadUC:    readUC,
		InspectUC: inspectUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
