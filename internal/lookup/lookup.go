// Package lookup provides the (destination port, protocol) to tag mapping
// used to classify flow log records.
package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grushad/flowtag/internal/logging"
)

// Row is one entry of the lookup table.
type Row struct {
	// DstPort is the destination port to match
	DstPort int
	// Protocol is the protocol name to match (case-insensitive)
	Protocol string
	// Tag is the label assigned to matching flow records
	Tag string
}

// key identifies a (port, protocol) pair. Protocol is stored lowercase.
type key struct {
	port     int
	protocol string
}

// Table maps (destination port, protocol name) pairs to tags.
//
// Built once before the aggregation pass and read-only afterwards, so it is
// safe for concurrent lookups without locking.
type Table struct {
	tags map[key]string
}

// Build creates a Table from the given rows. Protocol names are normalized
// to lowercase. On duplicate (port, protocol) keys the later row overwrites
// the earlier one; last-write-wins is the documented policy, not an error.
func Build(rows []Row) *Table {
	t := &Table{tags: make(map[key]string, len(rows))}
	for _, row := range rows {
		k := key{port: row.DstPort, protocol: strings.ToLower(row.Protocol)}
		if prev, exists := t.tags[k]; exists && prev != row.Tag {
			logging.Debug("duplicate lookup key, later row wins",
				"dstport", row.DstPort, "protocol", k.protocol,
				"previous_tag", prev, "tag", row.Tag)
		}
		t.tags[k] = row.Tag
	}
	return t
}

// Lookup returns the tag for a (port, protocol) pair. Protocol matching is
// case-insensitive. The second return value is false when the pair is not in
// the table; a miss is an expected outcome, not an error.
func (t *Table) Lookup(port int, protocol string) (string, bool) {
	tag, ok := t.tags[key{port: port, protocol: strings.ToLower(protocol)}]
	return tag, ok
}

// Len returns the number of distinct (port, protocol) keys in the table.
func (t *Table) Len() int {
	return len(t.tags)
}

// Expected lookup table columns. The header row is matched by name so column
// order does not matter.
const (
	columnDstPort  = "dstport"
	columnProtocol = "protocol"
	columnTag      = "tag"
)

// LoadCSV reads lookup rows from CSV data with a dstport,protocol,tag header.
// Malformed rows (missing fields, non-numeric port, empty protocol) are
// skipped with a warning and counted in the returned skipped tally; only
// read failures and a missing or unusable header are fatal.
func LoadCSV(r io.Reader) (rows []Row, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated per row below
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("lookup table is empty")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read lookup table header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnDstPort, columnProtocol, columnTag} {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("lookup table header is missing %q column", required)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// csv.Reader reports per-record syntax problems as *csv.ParseError;
			// treat those like any other malformed row.
			logging.Warning("skipping malformed lookup row", "line", line, "error", err)
			skipped++
			continue
		}

		row, rowErr := parseRow(columns, record)
		if rowErr != nil {
			logging.Warning("skipping invalid lookup row", "line", line, "error", rowErr)
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// parseRow extracts a Row from one CSV record using the header column map.
func parseRow(columns map[string]int, record []string) (Row, error) {
	get := func(column string) (string, error) {
		idx := columns[column]
		if idx >= len(record) {
			return "", fmt.Errorf("missing %s field", column)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	portField, err := get(columnDstPort)
	if err != nil {
		return Row{}, err
	}
	port, err := strconv.Atoi(portField)
	if err != nil {
		return Row{}, fmt.Errorf("invalid dstport %q", portField)
	}
	if port < 0 {
		return Row{}, fmt.Errorf("negative dstport %d", port)
	}

	protocol, err := get(columnProtocol)
	if err != nil {
		return Row{}, err
	}
	if protocol == "" {
		return Row{}, fmt.Errorf("empty protocol field")
	}

	tag, err := get(columnTag)
	if err != nil {
		return Row{}, err
	}

	return Row{DstPort: port, Protocol: protocol, Tag: tag}, nil
}
