// Package pipeline wires the lookup table, flow log parser and aggregator
// into a single batch pass over the input files.
package pipeline

import (
	"bufio"
	"fmt"
	"os"

	"github.com/grushad/flowtag/internal/aggregate"
	"github.com/grushad/flowtag/internal/flowlog"
	"github.com/grushad/flowtag/internal/logging"
	"github.com/grushad/flowtag/internal/lookup"
)

// Config holds configuration for the pipeline.
type Config struct {
	// Layout is the flow log field layout; zero value means the default
	// VPC version 2 layout
	Layout flowlog.Layout
}

// Pipeline runs the parse-classify-aggregate pass. It holds no state between
// runs beyond its configuration.
type Pipeline struct {
	parser *flowlog.Parser
}

// New creates a pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	layout := cfg.Layout
	if layout == (flowlog.Layout{}) {
		layout = flowlog.DefaultLayout()
	}
	return &Pipeline{parser: flowlog.NewParser(layout)}
}

// Run loads the lookup table, scans the flow log line by line and returns
// the finalized aggregate result. Only input file access failures are
// returned as errors; malformed rows and lines are skipped, logged and
// tallied in the result stats.
func (p *Pipeline) Run(lookupPath, flowLogPath string) (*aggregate.Result, error) {
	table, skippedRows, err := p.loadLookupTable(lookupPath)
	if err != nil {
		return nil, err
	}

	agg := aggregate.New(table)
	agg.SetSkippedLookupRows(skippedRows)

	if err := p.scanFlowLog(flowLogPath, agg); err != nil {
		return nil, err
	}

	result := agg.Result()
	stats := result.Stats()
	logging.Info("flow log processed",
		"lookup_keys", table.Len(),
		"processed_lines", stats.ProcessedLines,
		"skipped_lines", stats.SkippedLines,
		"skipped_lookup_rows", stats.SkippedLookupRows,
		"tags", len(result.TagCounts()),
		"pairs", len(result.PairCounts()))

	return result, nil
}

// loadLookupTable reads and indexes the lookup table file.
func (p *Pipeline) loadLookupTable(path string) (*lookup.Table, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open lookup table: %w", err)
	}
	defer file.Close()

	rows, skipped, err := lookup.LoadCSV(file)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load lookup table %s: %w", path, err)
	}

	return lookup.Build(rows), skipped, nil
}

// scanFlowLog feeds every flow log line through the parser and aggregator.
func (p *Pipeline) scanFlowLog(path string, agg *aggregate.Aggregator) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open flow log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		rec, err := p.parser.Parse(line)
		if err != nil {
			// Blank lines are common at the end of a file; skip them
			// quietly, everything else gets a warning.
			if line != "" {
				logging.Warning("skipping flow log line", "line", lineNo, "error", err)
			}
			agg.Skip()
			continue
		}
		agg.Process(rec)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read flow log: %w", err)
	}

	return nil
}
