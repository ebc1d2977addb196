package dashboard

import (
	"Meal-Tracker/domain"
	"fmt"
)

// FetchError is returned when the initial load of a view fails. The view
// stays in the failed state and shows no entries.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", domain.ErrFetchFailed, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{domain.ErrFetchFailed, e.Err}
}

// DeleteError is returned when the store rejects a delete. The view keeps
// the entry.
type DeleteError struct {
	ID     string
	Reason string
	Err    error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("%s: meal entry %s: %s", domain.ErrDeleteFailed, e.ID, e.Reason)
}

func (e *DeleteError) Unwrap() []error {
	return []error{domain.ErrDeleteFailed, e.Err}
}
