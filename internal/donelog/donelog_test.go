package donelog

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/velikov/donefold/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRules() models.Rules {
	return models.NewRules([]string{"Work", "Projects", "Gaming"}, []string{"Work"}, nil)
}

func TestExtractWeek_Basic(t *testing.T) {
	lines := []string{
		"# Done Stuff",
		"",
		"### Week 01",
		"a",
		"b",
		"### Week 02",
		"c",
	}
	got := ExtractWeek(lines, 1)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("week 1 = %v, want %v", got, want)
	}
	got = ExtractWeek(lines, 2)
	want = []string{"c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("week 2 = %v, want %v", got, want)
	}
}

func TestExtractWeek_Missing(t *testing.T) {
	lines := []string{"### Week 01", "a"}
	if got := ExtractWeek(lines, 7); len(got) != 0 {
		t.Errorf("missing week should be empty, got %v", got)
	}
}

func TestExtractWeek_Idempotent(t *testing.T) {
	lines := []string{"intro", "### Week 03", "x", "", "y", "### Week 04", "z"}
	first := ExtractWeek(lines, 3)
	second := ExtractWeek(lines, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-extraction differs: %v vs %v", first, second)
	}
}

func TestExtractWeek_StopsAtFirstClosingHeader(t *testing.T) {
	lines := []string{
		"### Week 01",
		"a",
		"### Week 02",
		"b",
		"### Week 01",
		"late duplicate",
	}
	got := ExtractWeek(lines, 1)
	want := []string{"a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWeeks(t *testing.T) {
	lines := []string{
		"### Week 01",
		"a",
		"### Week 05",
		"### Week 01",
	}
	got := Weeks(lines)
	want := []int{1, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("weeks = %v, want %v", got, want)
	}
}

func TestParseWeek_WeekdayMerge(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"- Fix bug",
		"- Fix bug",
		"#### 02/01 Tuesday",
		"- Fix bug",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	a, ok := actions["Fix bug"]
	if !ok {
		t.Fatalf("action missing: %v", actions)
	}
	if a.WeekdayNums != "0, 1" {
		t.Errorf("weekday_nums = %q, want %q", a.WeekdayNums, "0, 1")
	}
}

func TestParseWeek_NotesRelativeIndent(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"- Fix bug",
		"    - took 2 hours",
		"        - mostly waiting for CI",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	a := actions["Fix bug"]
	if a == nil {
		t.Fatal("action missing")
	}
	want := []string{"    - took 2 hours", "        - mostly waiting for CI"}
	if !reflect.DeepEqual(a.Notes, want) {
		t.Errorf("notes = %q, want %q", a.Notes, want)
	}
}

func TestParseWeek_BlankLinesSkipped(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"- Fix bug",
		"",
		"- ",
		"    - still a note of Fix bug",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	a := actions["Fix bug"]
	if a == nil {
		t.Fatal("action missing")
	}
	if len(a.Notes) != 1 || a.Notes[0] != "    - still a note of Fix bug" {
		t.Errorf("notes = %q", a.Notes)
	}
}

func TestParseWeek_DayHeaderResetsScope(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"- Fix bug",
		"#### 02/01 Tuesday",
		"    - not a note, no active action",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	if got := len(actions["Fix bug"].Notes); got != 0 {
		t.Errorf("notes after day header = %d, want 0", got)
	}
	if len(actions) != 1 {
		t.Errorf("actions = %d, want 1", len(actions))
	}
}

func TestParseWeek_CategoryLineProducesNoAction(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"- Work",
		"    - Indented entry under a category",
		"- Top level entry",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	if _, ok := actions["Work"]; ok {
		t.Error("category line must not become an action")
	}
	// The indented entry has no active action, so it drops silently.
	if _, ok := actions["Indented entry under a category"]; ok {
		t.Error("indented categorized entry should not become an action")
	}
	a, ok := actions["Top level entry"]
	if !ok {
		t.Fatal("top level entry missing")
	}
	// Width-0 context clears the active category before the action is created.
	if a.Category != "" {
		t.Errorf("category = %q, want empty", a.Category)
	}
}

func TestParseWeek_NoteBeforeAnyActionDropped(t *testing.T) {
	lines := []string{
		"#### 01/01 Monday",
		"    - floating note",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	if len(actions) != 0 {
		t.Errorf("actions = %v, want none", actions)
	}
}

func TestParseWeek_UnknownWeekdayClearsDay(t *testing.T) {
	lines := []string{
		"#### 01/01 Funday",
		"- Mystery task",
	}
	actions := ParseWeek(lines, testRules(), testLogger())
	a := actions["Mystery task"]
	if a == nil {
		t.Fatal("action missing")
	}
	if a.WeekdayNums != "" {
		t.Errorf("weekday_nums = %q, want empty", a.WeekdayNums)
	}
}

func TestParseWeek_ActionBeforeAnyDayHeader(t *testing.T) {
	lines := []string{"- Early task"}
	actions := ParseWeek(lines, testRules(), testLogger())
	a := actions["Early task"]
	if a == nil {
		t.Fatal("action missing")
	}
	if a.WeekdayNums != "" {
		t.Errorf("weekday_nums = %q, want empty", a.WeekdayNums)
	}
}

func TestParseWeek_AlternateCategorySet(t *testing.T) {
	rules := models.NewRules([]string{"Deep Focus"}, nil, nil)
	lines := []string{
		"#### 01/01 Monday",
		"- Deep Focus",
		"- Work",
	}
	actions := ParseWeek(lines, rules, testLogger())
	if _, ok := actions["Deep Focus"]; ok {
		t.Error("configured category must not become an action")
	}
	if _, ok := actions["Work"]; !ok {
		t.Error("Work is a plain action under the alternate category set")
	}
}

func TestShiftLeft_ClampsToLeadingWhitespace(t *testing.T) {
	// A note indented less than the requested width loses only its
	// indentation, never its text.
	if got := shiftLeft("  short", 4); got != "short" {
		t.Errorf("shiftLeft = %q, want %q", got, "short")
	}
	if got := shiftLeft("    - note", 4); got != "- note" {
		t.Errorf("shiftLeft = %q, want %q", got, "- note")
	}
	if got := shiftLeft("plain", 0); got != "plain" {
		t.Errorf("shiftLeft = %q, want %q", got, "plain")
	}
}
