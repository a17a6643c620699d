package aggservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/velikov/donefold/internal/apperr"
	"github.com/velikov/donefold/internal/models"
	"github.com/velikov/donefold/internal/testutil"
)

const testDoneFile = "Done Stuff.md"

func testService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	rules := models.NewRules([]string{"Work", "Projects"}, []string{"Work"}, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, db, rules, testDoneFile, logger)
}

func seedJournal(t *testing.T, s *Service) {
	t.Helper()
	done := "### Week 01\n" +
		"#### 01/01 Monday\n" +
		"- Fix bug\n" +
		"    - took 2 hours\n" +
		"- Untouched task\n"
	if err := s.store.Write(testDoneFile, []byte(done)); err != nil {
		t.Fatal(err)
	}
	reportBody := "- **Fix bug**  *(01:58)* <!--01/01 Mon-->\n"
	if err := s.store.Write("2021 Week 01.md", []byte(reportBody)); err != nil {
		t.Fatal(err)
	}
}

func TestReportWeek(t *testing.T) {
	cases := []struct {
		path string
		week int
		ok   bool
	}{
		{"2021 Week 01.md", 1, true},
		{"reports/2021 Week 13.md", 13, true},
		{"Week 7.md", 7, true},
		{"notes.md", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		week, err := ReportWeek(c.path)
		if c.ok {
			if err != nil {
				t.Errorf("ReportWeek(%q): %v", c.path, err)
			}
			if week != c.week {
				t.Errorf("ReportWeek(%q) = %d, want %d", c.path, week, c.week)
			}
			continue
		}
		if !errors.Is(err, apperr.ErrBadReportName) {
			t.Errorf("ReportWeek(%q) err = %v, want ErrBadReportName", c.path, err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("2021 Week 01.md"); got != "2021 Week 01_done.md" {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestPreview(t *testing.T) {
	s := testService(t)
	seedJournal(t, s)

	res, err := s.Preview(context.Background(), "2021 Week 01.md")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if res.Week != 1 || res.Matched != 1 || res.Total != 2 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Output, "## Overview") {
		t.Error("output missing overview section")
	}
	if !strings.Contains(res.Output, "- Monday - Untouched task (Tracked)") {
		t.Errorf("output missing tracked entry:\n%s", res.Output)
	}

	// Preview must not create the output file or touch the history.
	if _, err := s.store.Read("2021 Week 01_done.md"); err == nil {
		t.Error("preview wrote the output file")
	}
	weeks, _ := s.db.Weeks()
	if len(weeks) != 0 {
		t.Errorf("preview stored history: %+v", weeks)
	}
}

func TestAggregate(t *testing.T) {
	s := testService(t)
	seedJournal(t, s)

	res, err := s.Aggregate(context.Background(), "2021 Week 01.md")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.OutputPath != "2021 Week 01_done.md" {
		t.Errorf("output path = %q", res.OutputPath)
	}

	written, err := s.store.Read(res.OutputPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(written) != res.Output {
		t.Error("output file differs from result text")
	}

	rows, err := s.db.WeekActions(1)
	if err != nil {
		t.Fatalf("WeekActions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	for _, r := range rows {
		switch r.Name {
		case "Fix bug":
			if r.Tracked {
				t.Error("matched action still tracked in history")
			}
		case "Untouched task":
			if !r.Tracked {
				t.Error("unmatched action should be tracked in history")
			}
		}
	}

	runs, err := s.db.Runs(1, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Matched != 1 || runs[0].Total != 2 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestAggregate_BadReportName(t *testing.T) {
	s := testService(t)
	seedJournal(t, s)

	_, err := s.Aggregate(context.Background(), "notes.md")
	if !errors.Is(err, apperr.ErrBadReportName) {
		t.Errorf("err = %v, want ErrBadReportName", err)
	}
}

func TestAggregate_MissingReport(t *testing.T) {
	s := testService(t)
	seedJournal(t, s)

	_, err := s.Aggregate(context.Background(), "2021 Week 09.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAggregate_MissingWeekInDoneLog(t *testing.T) {
	s := testService(t)
	seedJournal(t, s)
	if err := s.store.Write("2021 Week 02.md", []byte("- **Fix bug**\n")); err != nil {
		t.Fatal(err)
	}

	res, err := s.Aggregate(context.Background(), "2021 Week 02.md")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Total != 0 || res.Matched != 0 {
		t.Errorf("result = %+v, want empty week", res)
	}
	if !strings.HasPrefix(res.Output, "## Overview\n") {
		t.Errorf("output = %q", res.Output)
	}
}
