// Package flowlog parses AWS VPC flow log lines into structured records.
package flowlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Field positions of the default (version 2) VPC flow log record layout.
// Each line is space delimited; when tokenized the attributes sit at the
// indexes below.
const (
	FieldVersion = iota
	FieldAccountID
	FieldInterfaceID
	FieldSrcAddr
	FieldDstAddr
	FieldSrcPort
	FieldDstPort
	FieldProtocol
	FieldPackets
	FieldBytes
	FieldStart
	FieldEnd
	FieldAction
	FieldLogStatus
)

// Record holds the fields of one flow log line that the classification
// pipeline consumes. It is constructed per line and discarded after use.
type Record struct {
	// DstPort is the destination port of the flow
	DstPort int
	// Protocol is the IANA protocol number (6=tcp, 17=udp, ...)
	Protocol int
}

// Layout describes where the consumed fields sit in a whitespace-delimited
// line, for logs that deviate from the default version 2 format.
type Layout struct {
	// DstPortField is the index of the destination port field
	DstPortField int
	// ProtocolField is the index of the protocol number field
	ProtocolField int
}

// DefaultLayout returns the field layout of the default VPC flow log
// version 2 format.
func DefaultLayout() Layout {
	return Layout{
		DstPortField:  FieldDstPort,
		ProtocolField: FieldProtocol,
	}
}

// minFields returns the minimum field count a line needs for both consumed
// fields to be present.
func (l Layout) minFields() int {
	min := l.DstPortField
	if l.ProtocolField > min {
		min = l.ProtocolField
	}
	return min + 1
}

// Reason classifies why a line could not be parsed.
type Reason int

const (
	// ReasonIncomplete means the line has fewer fields than the layout needs.
	ReasonIncomplete Reason = iota
	// ReasonInvalidField means a consumed field is not a valid integer.
	ReasonInvalidField
)

// String returns the reason as a short identifier for logs.
func (r Reason) String() string {
	switch r {
	case ReasonIncomplete:
		return "incomplete"
	case ReasonInvalidField:
		return "invalid_field"
	default:
		return "unknown"
	}
}

// ParseError describes a flow log line that could not be parsed. Parse
// errors are recovered per line by the caller; they never abort a run.
type ParseError struct {
	// Reason classifies the failure
	Reason Reason
	// Detail describes the offending field or count
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Parser extracts Records from raw flow log lines.
type Parser struct {
	layout Layout
}

// NewParser creates a parser for the given field layout.
func NewParser(layout Layout) *Parser {
	return &Parser{layout: layout}
}

// Parse splits a line into whitespace-delimited fields and extracts the
// destination port and protocol number. A short line yields a ParseError
// with ReasonIncomplete, a non-numeric port or protocol field one with
// ReasonInvalidField. Parse has no side effects.
func (p *Parser) Parse(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < p.layout.minFields() {
		return Record{}, &ParseError{
			Reason: ReasonIncomplete,
			Detail: fmt.Sprintf("%d fields, need at least %d", len(fields), p.layout.minFields()),
		}
	}

	port, err := strconv.Atoi(fields[p.layout.DstPortField])
	if err != nil || port < 0 {
		return Record{}, &ParseError{
			Reason: ReasonInvalidField,
			Detail: fmt.Sprintf("dstport %q", fields[p.layout.DstPortField]),
		}
	}

	protocol, err := strconv.Atoi(fields[p.layout.ProtocolField])
	if err != nil || protocol < 0 {
		return Record{}, &ParseError{
			Reason: ReasonInvalidField,
			Detail: fmt.Sprintf("protocol %q", fields[p.layout.ProtocolField]),
		}
	}

	return Record{DstPort: port, Protocol: protocol}, nil
}
