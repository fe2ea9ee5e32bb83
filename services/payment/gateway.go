package payment

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Gateway authorizes card charges.
type Gateway interface {
	Authorize(ctx context.Context, amount decimal.Decimal, method string) bool
}

// SimulatedGateway stands in for a card processor: a fixed latency followed by
// a random draw that fails at FailureRate.
type SimulatedGateway struct {
	delay       time.Duration
	failureRate float64
	random      func() float64
}

type GatewayOption func(*SimulatedGateway)

func WithDelay(d time.Duration) GatewayOption {
	return func(g *SimulatedGateway) { g.delay = d }
}

func WithFailureRate(rate float64) GatewayOption {
	return func(g *SimulatedGateway) { g.failureRate = rate }
}

// WithRandom replaces the random source; it must return values in [0, 1).
func WithRandom(r func() float64) GatewayOption {
	return func(g *SimulatedGateway) { g.random = r }
}

func NewSimulatedGateway(opts ...GatewayOption) *SimulatedGateway {
	g := &SimulatedGateway{delay: time.Second, failureRate: 0.05, random: rand.Float64}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize returns false if ctx ends before the simulated latency elapses.
func (g *SimulatedGateway) Authorize(ctx context.Context, _ decimal.Decimal, _ string) bool {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	return g.random() > g.failureRate
}
