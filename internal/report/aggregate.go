// Package report splices a week's action notes into an existing weekly report
// and synthesizes its Overview section.
package report

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/velikov/donefold/internal/models"
)

// entryNameRe extracts the bold action name from a report bullet line, e.g.
// "- **Free up space on the shared machine**  *(01:58)* <!--02/16 Thu-->".
var entryNameRe = regexp.MustCompile(`^- \*\*([^*]+)\*\*.*`)

// TrackedTag marks overview entries whose action had no matching report line.
const TrackedTag = " (Tracked)"

// Result holds the aggregated report text and match bookkeeping.
type Result struct {
	// Text is the final document: Overview section, blank line, then the
	// original report with notes injected.
	Text string
	// Matched lists the action names whose notes were injected into the
	// report body, in match order.
	Matched []string
}

// Aggregate copies the report lines verbatim, injecting each matched action's
// notes immediately after its report line, then prepends a synthesized
// "## Overview" section listing every parsed action in deterministic
// weekday-then-name order. Duplicate bold names in the report log a warning
// and only the first match is honored; unmatched names inject nothing.
func Aggregate(reportLines []string, actions map[string]*models.Action, rules models.Rules, logger *slog.Logger) Result {
	var extended strings.Builder
	unconsumed := make(map[string]*models.Action, len(actions))
	for name, a := range actions {
		unconsumed[name] = a
	}
	used := make(map[string]struct{})
	var matched []string

	for _, line := range reportLines {
		extended.WriteString(line)
		extended.WriteByte('\n')
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := entryNameRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := m[1]
		if _, dup := used[name]; dup {
			logger.Warn("duplicate action entry found in report", slog.String("name", name))
			continue
		}
		action, ok := actions[name]
		if !ok {
			continue
		}
		used[name] = struct{}{}
		if _, ignored := rules.IgnoredCategories[action.Category]; ignored {
			continue
		}
		indent := strings.Repeat(" ", indentWidth(line))
		for _, note := range action.Notes {
			extended.WriteString(indent)
			extended.WriteString(note)
			extended.WriteByte('\n')
		}
		delete(unconsumed, name)
		matched = append(matched, name)
	}

	return Result{
		Text:    overview(actions, unconsumed, rules) + "\n" + extended.String(),
		Matched: matched,
	}
}

// overview renders the "## Overview" section over the full action mapping.
// Entries are ordered by the literal sort key
// ("- <weekday-numbers> " when present) + "- <name> ", which places
// weekday-attributed actions before untracked ones and keeps the output
// reproducible across runs.
func overview(actions, unconsumed map[string]*models.Action, rules models.Rules) string {
	type entry struct {
		key    string
		action *models.Action
	}
	entries := make([]entry, 0, len(actions))
	for _, a := range actions {
		key := ""
		if a.WeekdayNums != "" {
			key = "- " + a.WeekdayNums + " "
		}
		key += "- " + a.Name + " "
		entries = append(entries, entry{key: key, action: a})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	var b strings.Builder
	b.WriteString("## Overview\n")
	for _, e := range entries {
		a := e.action
		if a.WeekdayNums != "" {
			b.WriteString("- ")
			b.WriteString(weekdayNames(a.WeekdayNums, rules))
			b.WriteByte(' ')
		}
		b.WriteString("- ")
		b.WriteString(a.Name)
		if _, tracked := unconsumed[a.Name]; tracked {
			b.WriteString(TrackedTag)
		}
		b.WriteByte('\n')
		for _, note := range a.Notes {
			b.WriteString(note)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// weekdayNames translates a comma-separated weekday index list into full
// names, e.g. "0, 3" -> "Monday, Thursday". Indices outside the configured
// list are skipped.
func weekdayNames(nums string, rules models.Rules) string {
	parts := strings.Split(nums, ", ")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		if name := rules.WeekdayName(i); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
