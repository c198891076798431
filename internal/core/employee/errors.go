package employee

import "errors"

var (
	ErrInvalidCompanyID    = errors.New("employee: invalid company id")
	ErrInvalidStatusFilter = errors.New("employee: invalid status filter")
	ErrInvalidPageSize     = errors.New("employee: invalid page size")
	ErrInvalidPageToken    = errors.New("employee: invalid page token")
	ErrInvalidRecord       = errors.New("employee: invalid record")
	ErrSourceUnavailable   = errors.New("employee: source unavailable")
)
