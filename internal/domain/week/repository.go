package week

import "context"

// Repository describes week-flag persistence needs from use cases.
// ActiveWeeks returns week numbers in ascending order.
type Repository interface {
	ActiveWeeks(ctx context.Context) ([]int, error)
	IsActive(ctx context.Context, weekNumber int) (bool, error)
	SetActive(ctx context.Context, weekNumber int) error
	ReplaceAll(ctx context.Context, flags []Flag) error
}
