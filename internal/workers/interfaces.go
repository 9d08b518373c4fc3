package workers

import "context"

// Worker is a long-running background task tied to the server lifecycle.
// Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
