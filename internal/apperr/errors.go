package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrBadReportName = errors.New("report name has no week number")
)
