package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grushad/flowtag/internal/aggregate"
)

// Output CSV section headers.
var (
	tagHeader  = []string{"Tag", "Count"}
	pairHeader = []string{"Port", "Protocol", "Count"}
)

// WriteCSV writes the two aggregate tables as CSV: the tag counts, a blank
// row, then the port/protocol combination counts. Rows come out in the
// result's first-seen order, so identical input produces identical output.
func WriteCSV(w io.Writer, result *aggregate.Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tagHeader); err != nil {
		return err
	}
	for _, row := range result.TagCounts() {
		if err := writer.Write([]string{row.Tag, strconv.Itoa(row.Count)}); err != nil {
			return err
		}
	}

	// Blank row separates the two sections.
	if err := writer.Write([]string{""}); err != nil {
		return err
	}

	if err := writer.Write(pairHeader); err != nil {
		return err
	}
	for _, row := range result.PairCounts() {
		record := []string{strconv.Itoa(row.DstPort), row.Protocol, strconv.Itoa(row.Count)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the aggregate tables to the given path.
func WriteFile(path string, result *aggregate.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, result); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
