package journal_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"meridian/internal/exitcode"
	"meridian/internal/journal"
)

func record(t *testing.T, j *journal.Journal, verb, args string, code exitcode.Code, at time.Time) {
	t.Helper()
	err := j.Record(context.Background(), journal.Entry{
		SessionID:  "session-1",
		Verb:       verb,
		Arguments:  args,
		Code:       code,
		StartedAt:  at,
		FinishedAt: at.Add(120 * time.Millisecond),
	})
	if err != nil {
		t.Fatalf("Record %s: %v", verb, err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	j, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}

	base := time.Date(2025, 6, 1, 22, 15, 0, 0, time.UTC)
	record(t, j, "init", "", exitcode.Succeeded, base)
	record(t, j, "slew", "180 45", exitcode.NotHomed, base.Add(time.Minute))
	record(t, j, "home", "", exitcode.Succeeded, base.Add(2*time.Minute))

	entries, err := j.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(entries))
	}
	if entries[0].Verb != "home" || entries[1].Verb != "slew" {
		t.Fatalf("unexpected order: %s, %s", entries[0].Verb, entries[1].Verb)
	}
	if entries[1].Code != exitcode.NotHomed {
		t.Fatalf("slew code = %v, want not-homed", entries[1].Code)
	}
	if entries[1].Arguments != "180 45" {
		t.Fatalf("slew arguments = %q", entries[1].Arguments)
	}
	if !entries[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("home started at %v, want %v", entries[0].StartedAt, base.Add(2*time.Minute))
	}
	if got := entries[0].FinishedAt.Sub(entries[0].StartedAt); got != 120*time.Millisecond {
		t.Fatalf("home duration = %v, want 120ms", got)
	}

	stats, err := j.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[exitcode.Succeeded] != 2 || stats[exitcode.NotHomed] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// History survives a daemon restart.
	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err = reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("history lost across reopen: %d entries", len(entries))
	}

	// The CLI's read-only path sees the same rows.
	ro, err := journal.OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()
	entries, err = ro.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("read-only Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Verb != "home" {
		t.Fatalf("read-only Recent returned %+v", entries)
	}
}

func TestOpenReadOnlyRequiresExistingDatabase(t *testing.T) {
	_, err := journal.OpenReadOnly(filepath.Join(t.TempDir(), "absent.db"))
	if err == nil {
		t.Fatal("expected an error for a missing journal database")
	}
	// Callers distinguish "no history yet" from a broken database.
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}
