package runner

import (
	"context"

	"github.com/aretw0/midiroute/pkg/domain"
)

// Hooks defines callbacks for supervisor observability.
// Callbacks run on the supervisor goroutine and should return quickly.
type Hooks struct {
	OnStateChange func(context.Context, domain.StateChange)
	OnSnapshot    func(context.Context, domain.SessionSnapshot)
}

// Chain returns hooks calling h first, then next.
func (h Hooks) Chain(next Hooks) Hooks {
	return Hooks{
		OnStateChange: func(ctx context.Context, c domain.StateChange) {
			if h.OnStateChange != nil {
				h.OnStateChange(ctx, c)
			}
			if next.OnStateChange != nil {
				next.OnStateChange(ctx, c)
			}
		},
		OnSnapshot: func(ctx context.Context, s domain.SessionSnapshot) {
			if h.OnSnapshot != nil {
				h.OnSnapshot(ctx, s)
			}
			if next.OnSnapshot != nil {
				next.OnSnapshot(ctx, s)
			}
		},
	}
}
