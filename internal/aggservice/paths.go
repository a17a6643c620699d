package aggservice

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/velikov/donefold/internal/apperr"
)

// ReportWeek derives the week number from a report filename's trailing
// numeric token, e.g. "2021 Week 01.md" -> 1. A filename without such a token
// is an input-validation failure, not a parse anomaly.
func ReportWeek(path string) (int, error) {
	name := strings.TrimSuffix(filepath.Base(path), ".md")
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %q", apperr.ErrBadReportName, path)
	}
	week, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperr.ErrBadReportName, path)
	}
	return week, nil
}

// OutputPath returns the report path with the aggregated-output suffix,
// e.g. "2021 Week 01.md" -> "2021 Week 01_done.md".
func OutputPath(path string) string {
	return strings.TrimSuffix(path, ".md") + "_done.md"
}
