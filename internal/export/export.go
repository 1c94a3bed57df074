package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/storage/models"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format          ExportFormat
	StartTime       time.Time
	EndTime         time.Time
	CurveFilter     string // Filter by curve ID
	DirectionFilter string // Filter by direction (buy/sell)
	OnlyCompletions bool   // Only export trades that completed a curve
	OutputDir       string
}

// ExportSummary holds aggregate statistics for an export
type ExportSummary struct {
	TotalTrades  int       `json:"total_trades"`
	UniqueCurves int       `json:"unique_curves"`
	Completions  int       `json:"completions"`
	TotalFees    uint64    `json:"total_fees"`
	VolumeIn     uint64    `json:"volume_in"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// TradeExporter writes trade history to CSV or JSON files
type TradeExporter struct {
	logger *zap.Logger
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger,
	}
}

// ExportTrades exports trades based on the provided options
func (te *TradeExporter) ExportTrades(trades []*models.TradeRecord, options ExportOptions) (string, error) {
	filtered := te.filterTrades(trades, options)

	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ExecutedAt.Before(filtered[j].ExecutedAt)
	})

	filename := te.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = te.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	te.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterTrades applies filters to the trade list
func (te *TradeExporter) filterTrades(trades []*models.TradeRecord, options ExportOptions) []*models.TradeRecord {
	var filtered []*models.TradeRecord

	for _, trade := range trades {
		if !options.StartTime.IsZero() && trade.ExecutedAt.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && trade.ExecutedAt.After(options.EndTime) {
			continue
		}

		if options.CurveFilter != "" && trade.CurveID != options.CurveFilter {
			continue
		}

		if options.DirectionFilter != "" && trade.Direction != options.DirectionFilter {
			continue
		}

		if options.OnlyCompletions && !trade.CompletedCurve {
			continue
		}

		filtered = append(filtered, trade)
	}

	return filtered
}

// generateFilename creates a filename based on export options
func (te *TradeExporter) generateFilename(options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	var prefix string
	if options.DirectionFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.DirectionFilter)
	} else {
		prefix = "trades_all"
	}

	if options.CurveFilter != "" {
		prefix += "_" + options.CurveFilter
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func csvHeaders() []string {
	return []string{"curve_id", "direction", "amount_in", "amount_out", "fee_amount", "completed_curve", "executed_at"}
}

func tradeToCSV(trade *models.TradeRecord) []string {
	return []string{
		trade.CurveID,
		trade.Direction,
		strconv.FormatUint(trade.AmountIn, 10),
		strconv.FormatUint(trade.AmountOut, 10),
		strconv.FormatUint(trade.FeeAmount, 10),
		strconv.FormatBool(trade.CompletedCurve),
		trade.ExecutedAt.Format(time.RFC3339),
	}
}

// exportToCSV exports trades to CSV format
func (te *TradeExporter) exportToCSV(trades []*models.TradeRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, trade := range trades {
		if err := writer.Write(tradeToCSV(trade)); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return nil
}

// exportToJSON exports trades to JSON format
func (te *TradeExporter) exportToJSON(trades []*models.TradeRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time             `json:"export_time"`
		TradeCount int                   `json:"trade_count"`
		Trades     []*models.TradeRecord `json:"trades"`
		Summary    ExportSummary         `json:"summary"`
	}{
		ExportTime: time.Now(),
		TradeCount: len(trades),
		Trades:     trades,
		Summary:    te.calculateSummary(trades),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportDailyReport writes a CSV of all trades executed on the given day.
// Returns an empty path when the day has no trades.
func (te *TradeExporter) ExportDailyReport(trades []*models.TradeRecord, date time.Time, outputDir string) (string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	options := ExportOptions{
		Format:    FormatCSV,
		StartTime: dayStart,
		EndTime:   dayEnd,
		OutputDir: outputDir,
	}

	filtered := te.filterTrades(trades, options)
	if len(filtered) == 0 {
		te.logger.Info("No trades for daily report", zap.Time("date", dayStart))
		return "", nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ExecutedAt.Before(filtered[j].ExecutedAt)
	})

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, fmt.Sprintf("daily_report_%s.csv", dayStart.Format("20060102")))
	if err := te.exportToCSV(filtered, outputPath); err != nil {
		return "", err
	}

	te.logger.Info("Daily report exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)))

	return outputPath, nil
}

// calculateSummary calculates summary statistics for the export
func (te *TradeExporter) calculateSummary(trades []*models.TradeRecord) ExportSummary {
	summary := ExportSummary{
		TotalTrades: len(trades),
	}

	if len(trades) == 0 {
		return summary
	}

	summary.StartDate = trades[0].ExecutedAt
	summary.EndDate = trades[len(trades)-1].ExecutedAt

	curveSet := make(map[string]bool)
	for _, trade := range trades {
		curveSet[trade.CurveID] = true
		summary.TotalFees += trade.FeeAmount
		summary.VolumeIn += trade.AmountIn
		if trade.CompletedCurve {
			summary.Completions++
		}
	}
	summary.UniqueCurves = len(curveSet)

	return summary
}
