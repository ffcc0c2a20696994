package pipeline

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"globecli/internal/adapter"
	"globecli/internal/config"
	apperrors "globecli/internal/errors"
	"globecli/internal/globe"
	"globecli/internal/ingest"
	"globecli/internal/validation"
	"globecli/pkg/contracts/domain"
)

// Options controls a single pipeline invocation.
type Options struct {
	// FormatHint overrides shape-based detection when the caller knows the
	// source format, typically from a file extension.
	FormatHint domain.SourceFormat
	// Calculate runs the Pillar Two calculations after validation.
	Calculate bool
}

// Result is the structured output of one pipeline run: the canonical record,
// its validation outcome and, when requested, the calculation.
type Result struct {
	ID              string                    `json:"id"`
	SourceFormat    domain.SourceFormat       `json:"source_format"`
	Data            domain.Record             `json:"data"`
	Fields          domain.FieldSet           `json:"fields"`
	Validation      domain.ValidationResult   `json:"validation"`
	Calculation     *domain.CalculationResult `json:"calculation,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`
}

// Processor runs the full normalization and analysis pipeline.
type Processor struct {
	csvReader     *ingest.CSVReader
	excelReader   *ingest.ExcelReader
	adapter       *adapter.Adapter
	recordChecker *validation.RecordValidator
	fileChecker   *validation.FileValidator
	engine        *globe.Engine
	aggregator    *globe.Aggregator
	logger        *slog.Logger
}

// NewProcessor creates a processor with the given rule configuration.
func NewProcessor(cfg config.GloBEConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		csvReader:     ingest.NewCSVReader(logger),
		excelReader:   ingest.NewExcelReader(logger),
		adapter:       adapter.New(logger),
		recordChecker: validation.NewRecordValidator(logger),
		fileChecker:   validation.NewFileValidator(logger),
		engine:        globe.NewEngine(cfg, logger),
		aggregator:    globe.NewAggregator(cfg, logger),
		logger:        logger,
	}
}

// Process runs the pipeline over an in-memory input: a parsed table, a raw
// string/byte payload, a decoded JSON map or an already-canonical record.
// Validation findings are reported in the result, not as errors; only
// unrecoverable conditions (unsupported format, failed repair, missing
// calculation inputs) surface as errors.
func (p *Processor) Process(input interface{}, opts Options) (*Result, error) {
	format, err := ingest.Detect(input, opts.FormatHint)
	if err != nil {
		return nil, err
	}

	adapted, err := p.adapt(input, format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:           uuid.New().String(),
		SourceFormat: format,
		Data:         adapted.Record,
		Fields:       adapted.Fields,
	}

	result.Validation = p.recordChecker.ValidateFinancial(adapted.Record, adapted.Fields)
	result.Validation.Warnings = append(result.Validation.Warnings, adapted.Warnings...)

	p.logger.Debug("pipeline stage complete",
		slog.String("id", result.ID),
		slog.String("format", string(format)),
		slog.Bool("valid", result.Validation.IsValid),
		slog.Int("fields", len(adapted.Fields)),
	)

	if !opts.Calculate {
		return result, nil
	}

	if err := validation.RequiredFieldError(result.Validation); err != nil {
		return result, err
	}

	calc, err := p.engine.Analyze(&result.Data, result.Fields)
	if err != nil {
		return result, err
	}
	result.Calculation = calc
	result.Recommendations = p.engine.Recommend(&result.Data, result.Fields, calc)

	return result, nil
}

func (p *Processor) adapt(input interface{}, format domain.SourceFormat) (adapter.Result, error) {
	// A record that already went through the pipeline passes through
	// unchanged regardless of its original format.
	switch v := input.(type) {
	case domain.Record:
		return p.adapter.AdaptRecord(v), nil
	case *domain.Record:
		return p.adapter.AdaptRecord(*v), nil
	}

	switch format {
	case domain.FormatCSV:
		switch v := input.(type) {
		case *ingest.Table:
			return p.adapter.AdaptTable(v, format), nil
		case string:
			table, err := p.csvReader.Read(v)
			if err != nil {
				return adapter.Result{}, err
			}
			return p.adapter.AdaptTable(table, format), nil
		case []byte:
			table, err := p.csvReader.Read(string(v))
			if err != nil {
				return adapter.Result{}, err
			}
			return p.adapter.AdaptTable(table, format), nil
		}
	case domain.FormatExcel:
		switch v := input.(type) {
		case *ingest.Table:
			return p.adapter.AdaptTable(v, format), nil
		case [][]string:
			table, err := p.excelReader.ReadRows(v)
			if err != nil {
				return adapter.Result{}, err
			}
			return p.adapter.AdaptTable(table, format), nil
		}
	default:
		return p.adapter.Adapt(input, format)
	}

	return adapter.Result{}, apperrors.NewUnsupportedFormatError(
		fmt.Sprintf("cannot adapt input of type %T as %s", input, format))
}

// ProcessFile reads a file from disk and runs the pipeline over its contents.
// The format is taken from the extension unless the options carry a hint.
// All readers release their file handles before Process runs, including on
// parse failure.
func (p *Processor) ProcessFile(path string, opts Options) (*Result, error) {
	if err := p.fileChecker.ValidateInputFile(path); err != nil {
		return nil, inputFileError(err)
	}

	format := opts.FormatHint
	if format == "" || format == domain.FormatUnknown {
		detected, err := ingest.DetectFromPath(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	opts.FormatHint = format

	switch format {
	case domain.FormatExcel:
		table, err := p.excelReader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return p.Process(table, opts)
	case domain.FormatCSV:
		table, err := p.csvReader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return p.Process(table, opts)
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("read %s", path), err)
		}
		return p.Process(string(content), opts)
	}
}

// inputFileError maps a file-validation failure onto the error taxonomy.
// Already-typed errors keep their type; plain ones become validation errors
// so the HTTP layer reports them as client faults, not server faults.
func inputFileError(err error) error {
	var appErr *apperrors.AppError
	if goerrors.As(err, &appErr) {
		return err
	}
	return apperrors.NewAppValidationError(err.Error())
}
