package app

import (
	"strings"
	"testing"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace(" SELECT   *\nFROM match_participants \t WHERE puuid = $1 ")
	want := "SELECT * FROM match_participants WHERE puuid = $1"
	if got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}
}

func TestFormatDBQueryForTrace_TrimsLongStatements(t *testing.T) {
	long := "SELECT " + strings.Repeat("col, ", 200) + "1"
	got := formatDBQueryForTrace(long)
	if len(got) != tracedQueryLimit+3 {
		t.Fatalf("expected trimmed length %d, got %d", tracedQueryLimit+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected trimmed query to end with ellipsis, got %q", got[len(got)-10:])
	}
}
