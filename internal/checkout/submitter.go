package checkout

import (
	"context"
	"time"

	"github.com/fjod/storefront/internal/domain"
)

const DefaultSubmitDelay = 2 * time.Second

// Submitter delivers a placed order to whatever fulfils it.
type Submitter interface {
	Submit(ctx context.Context, order domain.Order) error
}

// SimulatedSubmitter stands in for the network round-trip: it waits Delay
// and then returns Err.
type SimulatedSubmitter struct {
	Delay time.Duration
	Err   error
}

func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{Delay: delay}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, _ domain.Order) error {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Err
}
