package history

import "github.com/velikov/donefold/internal/models"

// ActionHistory defines the interface for history operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type ActionHistory interface {
	ReplaceWeek(week int, actions map[string]*models.Action) error
	MarkMatched(week int, names []string) error
	WeekActions(week int) ([]ActionRow, error)
	Weeks() ([]WeekSummary, error)
	RecordRun(r RunRow) error
	Runs(week, limit int) ([]RunRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	GetState(key string) (string, error)
	SetState(key, value string) error
	Close() error
}

// Verify *DB satisfies ActionHistory at compile time.
var _ ActionHistory = (*DB)(nil)
