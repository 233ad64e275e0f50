// Package aggregate counts flow log records per tag and per
// (destination port, protocol) pair.
package aggregate

import (
	"github.com/grushad/flowtag/internal/flowlog"
	"github.com/grushad/flowtag/internal/lookup"
	"github.com/grushad/flowtag/internal/protocols"
)

// TagUntagged is the reserved bucket for well-formed records whose
// (port, protocol) pair has no lookup table entry.
const TagUntagged = "Untagged"

// TagCount is one row of the tag count table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PairCount is one row of the port/protocol combination count table.
type PairCount struct {
	DstPort  int    `json:"dstport"`
	Protocol string `json:"protocol"`
	Count    int    `json:"count"`
}

// Stats holds the per-run observability tallies.
type Stats struct {
	// ProcessedLines is the number of well-formed flow log lines counted
	// in both tables
	ProcessedLines int `json:"processed_lines"`
	// SkippedLines is the number of flow log lines dropped by the parser
	SkippedLines int `json:"skipped_lines"`
	// SkippedLookupRows is the number of malformed lookup table rows dropped
	SkippedLookupRows int `json:"skipped_lookup_rows"`
}

type pairKey struct {
	port     int
	protocol string
}

// Result holds the two aggregate count tables. Rows keep first-seen order
// so repeated runs over the same input produce identical output.
//
// A Result is mutated by exactly one Aggregator during the pass and is
// read-only once handed off.
type Result struct {
	tags      []TagCount
	pairs     []PairCount
	tagIndex  map[string]int
	pairIndex map[pairKey]int
	stats     Stats
}

func newResult() *Result {
	return &Result{
		tagIndex:  make(map[string]int),
		pairIndex: make(map[pairKey]int),
	}
}

// TagCounts returns the tag count table in first-seen order.
func (r *Result) TagCounts() []TagCount {
	return r.tags
}

// PairCounts returns the port/protocol count table in first-seen order.
func (r *Result) PairCounts() []PairCount {
	return r.pairs
}

// Stats returns the processed and skipped tallies.
func (r *Result) Stats() Stats {
	return r.stats
}

func (r *Result) addTag(tag string) {
	idx, exists := r.tagIndex[tag]
	if !exists {
		idx = len(r.tags)
		r.tagIndex[tag] = idx
		r.tags = append(r.tags, TagCount{Tag: tag})
	}
	r.tags[idx].Count++
}

func (r *Result) addPair(port int, protocol string) {
	k := pairKey{port: port, protocol: protocol}
	idx, exists := r.pairIndex[k]
	if !exists {
		idx = len(r.pairs)
		r.pairIndex[k] = idx
		r.pairs = append(r.pairs, PairCount{DstPort: port, Protocol: protocol})
	}
	r.pairs[idx].Count++
}

// Aggregator classifies parsed flow records against a lookup table and
// accumulates the counts. Not safe for concurrent use; run one aggregator
// per pass.
type Aggregator struct {
	table  *lookup.Table
	result *Result
}

// New creates an Aggregator over the given lookup table.
func New(table *lookup.Table) *Aggregator {
	return &Aggregator{table: table, result: newResult()}
}

// Process classifies one well-formed record: the protocol number resolves to
// its canonical name, the (port, name) pair is looked up, and both the tag
// count (TagUntagged on a miss) and the pair count are incremented. Every
// record lands exactly once in each table.
func (a *Aggregator) Process(rec flowlog.Record) {
	name := protocols.Name(rec.Protocol)

	tag, ok := a.table.Lookup(rec.DstPort, name)
	if !ok {
		tag = TagUntagged
	}

	a.result.addTag(tag)
	a.result.addPair(rec.DstPort, name)
	a.result.stats.ProcessedLines++
}

// Skip records a flow log line that failed parsing. Skipped lines touch
// neither count table.
func (a *Aggregator) Skip() {
	a.result.stats.SkippedLines++
}

// SetSkippedLookupRows records how many lookup table rows were dropped
// during loading, so the run summary covers both inputs.
func (a *Aggregator) SetSkippedLookupRows(n int) {
	a.result.stats.SkippedLookupRows = n
}

// Result hands off the accumulated counts. The caller owns the Result after
// the pass; the Aggregator must not be used again.
func (a *Aggregator) Result() *Result {
	return a.result
}
