package ports

import "context"

// HealthChecker abstracts a dependency probe reported by /health.
// Check returns nil when the dependency is usable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
