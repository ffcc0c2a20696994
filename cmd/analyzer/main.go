package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"globecli/internal/config"
	"globecli/internal/infrastructure"
	"globecli/internal/pipeline"
	"globecli/internal/services"
	"globecli/internal/validation"
)

// analyzer is the batch CLI: it normalizes one file or every supported file
// in a directory, runs the Pillar Two calculations and writes reports.
func main() {
	in := flag.String("in", "", "input file or directory of filings")
	out := flag.String("out", "reports", "output directory for generated reports")
	format := flag.String("format", "csv", "report format: csv, xlsx or gir")
	year := flag.Int("year", time.Now().Year(), "reporting year for GIR export")
	workers := flag.Int("workers", 4, "number of files processed concurrently")
	perRow := flag.Bool("batch", true, "treat tabular files as one entity per row")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Logging)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -in <file-or-dir> [-out dir] [-format csv|xlsx|gir]")
		os.Exit(2)
	}

	exportFormat, err := services.ParseExportFormat(*format)
	if err != nil {
		logger.Error("invalid format", "error", err)
		os.Exit(2)
	}

	files, err := collectInputs(logger, *in)
	if err != nil {
		logger.Error("failed to collect inputs", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no supported input files found", "in", *in)
		os.Exit(1)
	}

	fileChecker := validation.NewFileValidator(logger)
	if err := fileChecker.ValidateOutputDirectory(*out); err != nil {
		logger.Error("output directory unusable", "error", err)
		os.Exit(1)
	}

	svc := services.NewAnalysisServiceWithLogger(cfg.GloBE, logger)

	start := time.Now()
	var mu sync.Mutex
	processed, failed := 0, 0

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := analyzeFile(ctx, svc, logger, file, *out, exportFormat, *year, *perRow); err != nil {
				logger.Error("file failed", "file", file, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				// Keep going; one bad filing should not abort the batch.
				return nil
			}
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"processed", processed,
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs expands a path into the list of supported files under it.
func collectInputs(logger *slog.Logger, in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{in}, nil
	}

	checker := validation.NewFileValidator(logger)
	var files []string
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(in, entry.Name())
		if err := checker.ValidateInputFile(path); err != nil {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func analyzeFile(ctx context.Context, svc *services.AnalysisService, logger *slog.Logger, path, out string, format services.ExportFormat, year int, perRow bool) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ext := strings.ToLower(filepath.Ext(path))
	tabular := ext == ".csv" || ext == ".xlsx" || ext == ".xls"

	if perRow && tabular {
		batch, err := svc.AnalyzeBatchUpload(ctx, path, src)
		if err != nil {
			return err
		}
		target := filepath.Join(out, base+"."+exportExtension(format))
		if err := svc.ExportBatch(ctx, target, format, year, batch); err != nil {
			return err
		}
		logger.Info("analyzed filing",
			"file", path,
			"entities", len(batch.Results),
			"skipped", len(batch.Skipped),
			"aggregate_etr", fmt.Sprintf("%.2f", batch.Summary.AverageETR),
			"risk", string(batch.Summary.RiskLevel),
			"report", target)
		return nil
	}

	result, err := svc.AnalyzeUpload(ctx, path, src, true)
	if err != nil {
		return err
	}
	return writeResultJSON(filepath.Join(out, base+".json"), result)
}

func exportExtension(format services.ExportFormat) string {
	if format == services.ExportGIR {
		return "xml"
	}
	return string(format)
}

func writeResultJSON(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
