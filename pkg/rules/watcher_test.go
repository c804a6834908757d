package rules

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/log"
)

const initialCSV = "source_dialect,target_dialect,pattern_search,pattern_replace\n" +
	"sql server,oracle,FOO,BAR\n"

const updatedCSV = "source_dialect,target_dialect,pattern_search,pattern_replace\n" +
	"sql server,oracle,FOO,BAZ\n"

func TestWatcherReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.csv")
	if err := os.WriteFile(path, []byte(initialCSV), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	initial, err := Load(path, dialect.SQLServer)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var current atomic.Pointer[RuleSet]
	current.Store(initial)

	reloaded := make(chan *RuleSet, 1)
	w, err := NewWatcher(path, dialect.SQLServer, &current, log.Default(),
		WithDebounceDelay(10*time.Millisecond),
		WithOnReload(func(rs *RuleSet) { reloaded <- rs }))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(updatedCSV), 0o644); err != nil {
		t.Fatalf("WriteFile update: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	got := Apply("SELECT FOO", current.Load().RulesFor(dialect.Oracle))
	if got != "SELECT BAZ" {
		t.Errorf("got %q, want reloaded rule applied", got)
	}
}
