package main

import (
	"context"
	"flag"

	"github.com/elderwell/platform/pkg/common/config"
	"github.com/elderwell/platform/pkg/common/database"
	"github.com/elderwell/platform/pkg/common/kafka"
	"github.com/elderwell/platform/pkg/common/logger"
	"github.com/elderwell/platform/pkg/knowledge"
	"github.com/elderwell/platform/pkg/observability/metrics"
	"github.com/elderwell/platform/pkg/source"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init("importer")

	dataDir := flag.String("data", "", "directory containing the tabular source files")
	schemaPath := flag.String("schema", "", "optional YAML column-mapping file")
	flag.Parse()

	cfg := config.Load()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *schemaPath != "" {
		cfg.SchemaPath = *schemaPath
	}

	schema, err := source.LoadSchema(cfg.SchemaPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load source schema")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to knowledge store")
	}
	defer database.ClosePostgres()

	repo := knowledge.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate knowledge store")
	}

	builder := knowledge.NewBuilder(repo, schema)
	report := builder.Run(context.Background(), knowledge.SourcePaths{
		Severity:     cfg.SourcePath(cfg.SeverityFile),
		Descriptions: cfg.SourcePath(cfg.DescFile),
		Precautions:  cfg.SourcePath(cfg.PrecautionFile),
		Occurrences:  cfg.SourcePath(cfg.OccurrenceFile),
		Drugs:        cfg.SourcePath(cfg.DrugFile),
	})

	metrics.ObserveImportCounts(report.TotalImported(), report.TotalFailed())
	for _, procedure := range report.Procedures {
		logger.Log.WithFields(map[string]interface{}{
			"procedure": procedure.Name,
			"imported":  procedure.Imported,
			"failed":    procedure.Failed,
			"skipped":   procedure.Skipped,
		}).Info("Procedure finished")
	}

	producer := kafka.NewProducer("knowledge-refresh")
	defer producer.Close()
	if err := producer.PublishEvent(context.Background(), "knowledge-refresh", "importer", map[string]interface{}{
		"imported": report.TotalImported(),
		"failed":   report.TotalFailed(),
	}); err != nil {
		logger.Log.WithError(err).Warn("Failed to publish knowledge refresh event")
	}

	// Individual batch failures are reported above but never turn into a
	// non-zero exit; the run is best effort.
	logger.Log.WithFields(map[string]interface{}{
		"imported": report.TotalImported(),
		"failed":   report.TotalFailed(),
	}).Info("Knowledge base import complete")
}
