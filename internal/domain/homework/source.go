package homework

import "context"

// StatusSource returns the homeworks whose review status changed after from (Unix seconds).
type StatusSource interface {
	HomeworkStatuses(ctx context.Context, from int64) (*StatusResponse, error)
}
