package lookup

import (
	"strings"
	"testing"
)

func TestBuildAndLookup(t *testing.T) {
	table := Build([]Row{
		{DstPort: 443, Protocol: "tcp", Tag: "sv_P1"},
		{DstPort: 25, Protocol: "TCP", Tag: "sv_P2"},
		{DstPort: 68, Protocol: "udp", Tag: "sv_P3"},
	})

	if table.Len() != 3 {
		t.Fatalf("expected 3 keys, got %d", table.Len())
	}

	tag, ok := table.Lookup(443, "tcp")
	if !ok || tag != "sv_P1" {
		t.Errorf("Lookup(443, tcp) = %q, %v, want sv_P1, true", tag, ok)
	}

	// Protocol stored uppercase, looked up lowercase
	tag, ok = table.Lookup(25, "tcp")
	if !ok || tag != "sv_P2" {
		t.Errorf("Lookup(25, tcp) = %q, %v, want sv_P2, true", tag, ok)
	}

	// Lookup is case-insensitive too
	tag, ok = table.Lookup(68, "UDP")
	if !ok || tag != "sv_P3" {
		t.Errorf("Lookup(68, UDP) = %q, %v, want sv_P3, true", tag, ok)
	}
}

func TestLookupMiss(t *testing.T) {
	table := Build([]Row{{DstPort: 443, Protocol: "tcp", Tag: "web"}})

	if _, ok := table.Lookup(53, "udp"); ok {
		t.Error("expected miss for (53, udp)")
	}
	// Same port, different protocol
	if _, ok := table.Lookup(443, "udp"); ok {
		t.Error("expected miss for (443, udp)")
	}
}

func TestBuildDuplicateKeyLastWins(t *testing.T) {
	table := Build([]Row{
		{DstPort: 80, Protocol: "tcp", Tag: "web"},
		{DstPort: 80, Protocol: "TCP", Tag: "web2"},
	})

	if table.Len() != 1 {
		t.Fatalf("expected 1 key after duplicate, got %d", table.Len())
	}
	tag, ok := table.Lookup(80, "tcp")
	if !ok || tag != "web2" {
		t.Errorf("Lookup(80, tcp) = %q, %v, want web2, true", tag, ok)
	}
}

func TestLoadCSV(t *testing.T) {
	data := `dstport,protocol,tag
25,tcp,sv_P1
443,tcp,sv_P2
110,tcp,email
`
	rows, skipped, err := LoadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped rows, got %d", skipped)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].DstPort != 25 || rows[0].Protocol != "tcp" || rows[0].Tag != "sv_P1" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
}

func TestLoadCSVReorderedColumns(t *testing.T) {
	data := `tag,dstport,protocol
web,443,tcp
`
	rows, _, err := LoadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].DstPort != 443 || rows[0].Tag != "web" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestLoadCSVSkipsMalformedRows(t *testing.T) {
	data := `dstport,protocol,tag
443,tcp,web
not-a-port,tcp,bad
22
,udp,empty-port
53,udp,dns
`
	rows, skipped, err := LoadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(rows))
	}
	if skipped != 3 {
		t.Errorf("expected 3 skipped rows, got %d", skipped)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	data := `port,proto,label
443,tcp,web
`
	if _, _, err := LoadCSV(strings.NewReader(data)); err == nil {
		t.Error("expected error for unusable header")
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	if _, _, err := LoadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty lookup table")
	}
}
