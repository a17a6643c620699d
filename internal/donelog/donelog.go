// Package donelog parses the Done journal's indentation-significant dialect:
// "### Week NN" sections containing "#### D/M Weekday" day headers, optional
// category lines, top-level action lines, and indented note lines.
package donelog

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/velikov/donefold/internal/models"
)

var (
	dayHeaderRe  = regexp.MustCompile(`^#### (\d+)/(\d+) (\w+)`)
	weekHeaderRe = regexp.MustCompile(`^### Week (\d+)$`)
)

const weekHeaderPrefix = "### Week "

// ExtractWeek returns the contiguous lines strictly between the header for the
// requested week and the next week header (or end of input). Header lines are
// excluded. A missing week yields an empty result, not an error, and only the
// first occurrence's span is scanned.
func ExtractWeek(lines []string, week int) []string {
	target := fmt.Sprintf("%s%02d", weekHeaderPrefix, week)
	var out []string
	started := false
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if started {
			if strings.HasPrefix(stripped, weekHeaderPrefix) {
				break
			}
			out = append(out, line)
		}
		if stripped == target {
			started = true
		}
	}
	return out
}

// Weeks returns the week numbers of every "### Week NN" header found in the
// journal, in source order without duplicates.
func Weeks(lines []string) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, line := range lines {
		m := weekHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ParseWeek folds one week's journal lines into a mapping from action name to
// Action. Day headers set the current weekday and reset the category/action
// scope; category lines set the active category; width-0 lines create or merge
// actions; deeper lines become notes of the active action, shifted left by the
// action's base indentation. Note lines with no active action drop silently.
func ParseWeek(lines []string, rules models.Rules, logger *slog.Logger) map[string]*models.Action {
	actions := make(map[string]*models.Action)
	var active *models.Action
	category := ""
	weekday := ""

	for _, line := range lines {
		stripped := strings.TrimSpace(strings.TrimLeft(line, "- "))
		if stripped == "" {
			continue
		}

		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			if idx, known := rules.WeekdayIndex(m[3]); known {
				weekday = strconv.Itoa(idx)
			} else {
				logger.Warn("unknown weekday in day header", slog.String("weekday", m[3]))
				weekday = ""
			}
			category = ""
			active = nil
			continue
		}

		if _, ok := rules.Categories[stripped]; ok {
			active = nil
			category = stripped
			continue
		}

		width := indentWidth(line)
		if width == 0 {
			category = ""
			if a, ok := actions[stripped]; ok {
				active = a
				// Weekday indices are single digits, so substring
				// containment equals membership.
				if !strings.Contains(a.WeekdayNums, weekday) {
					a.WeekdayNums += ", " + weekday
				}
				continue
			}
			active = &models.Action{
				IndentWidth: width,
				Name:        stripped,
				Category:    category,
				WeekdayNums: weekday,
			}
			actions[active.Name] = active
			continue
		}

		if active != nil {
			active.Notes = append(active.Notes, shiftLeft(line, active.IndentWidth))
		}
	}
	return actions
}

// indentWidth counts the leading whitespace characters of a line.
func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// shiftLeft removes up to width leading characters from a note line. The shift
// is clamped to the line's own leading whitespace so a note indented less than
// its action's base width loses only its indentation, never its text.
func shiftLeft(line string, width int) string {
	if width <= 0 {
		return line
	}
	if lead := indentWidth(line); width > lead {
		width = lead
	}
	return line[width:]
}
