package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunAggregate_PrintsOutputPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Journal.Path = t.TempDir()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "donefold.db")

	done := "### Week 01\n" +
		"#### 01/01 Monday\n" +
		"- Fix bug\n" +
		"    - took 2 hours\n"
	if err := os.WriteFile(filepath.Join(cfg.Journal.Path, "Done Stuff.md"), []byte(done), 0o644); err != nil {
		t.Fatal(err)
	}
	report := "- **Fix bug**  <!--01/01 Mon-->\n"
	if err := os.WriteFile(filepath.Join(cfg.Journal.Path, "2021 Week 01.md"), []byte(report), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := RunAggregate(context.Background(), cfg, "2021 Week 01.md", "", &out); err != nil {
		t.Fatalf("RunAggregate: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "2021 Week 01_done.md" {
		t.Errorf("printed %q, want the output path", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.Journal.Path, "2021 Week 01_done.md")); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}
