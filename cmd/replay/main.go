package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	appreplay "main/internal/application/service/replay"
	"main/internal/domain/interfaces"
	infraaudit "main/internal/infrastructure/audit"
	"main/internal/infrastructure/ingest"
	"main/internal/interfaces/render"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		filePath   = flag.String("file", "", "path to the order log CSV")
		instrument = flag.String("instrument", "", "instrument token to replay")
		noStore    = flag.Bool("no-store", false, "skip audit persistence and dedup")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	if *filePath == "" || *instrument == "" {
		logger.Fatal("both -file and -instrument are required")
	}

	_ = godotenv.Load()

	var auditStore interfaces.AuditRepository
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" && !*noStore {
		repo, err := infraaudit.NewRepository(ctx, dsn)
		if err != nil {
			logger.Fatalf("failed to init audit repo: %v", err)
		}
		defer repo.Close()
		auditStore = repo
	}

	fingerprint, err := ingest.FingerprintFile(*filePath)
	if err != nil {
		logger.Fatalf("failed to fingerprint %s: %v", *filePath, err)
	}
	records, err := ingest.ReadLogFile(*filePath)
	if err != nil {
		logger.Fatalf("failed to read %s: %v", *filePath, err)
	}

	service := appreplay.NewService(auditStore, logger)

	summary, err := service.Process(ctx, records, *instrument, fingerprint)
	switch {
	case errors.Is(err, appreplay.ErrDuplicateInput):
		logger.Fatalf("input already processed: %v", err)
	case errors.Is(err, appreplay.ErrInstrumentNotFound):
		logger.Fatalf("instrument not found: %v", err)
	case err != nil:
		logger.Fatalf("replay failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"fingerprint": fingerprint,
		"instrument":  *instrument,
		"records":     len(records),
	}).Info("replay complete")

	if err := render.WriteSummary(os.Stdout, summary); err != nil {
		logger.Fatalf("failed to render summary: %v", err)
	}
}
