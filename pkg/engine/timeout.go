package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/vecgeo/pkg/scene"
)

// EvalTimeout bounds a single Evaluate call.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation outlives its deadline. The
	// interpreter goroutine keeps running; its result is dropped.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("engine: evaluation superseded by a newer request")
)

// outcome is what an interpreter goroutine hands back.
type outcome struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// generations numbers evaluations so that only the latest one delivers.
type generations struct {
	mu     sync.Mutex
	latest uint64
}

func (g *generations) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

func (g *generations) isLatest(ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ticket == g.latest
}

// await blocks until ch delivers or ctx ends. A result that arrives after
// a newer ticket was issued is discarded, scene included.
func (g *generations) await(ctx context.Context, ticket uint64, ch <-chan outcome) (outcome, error) {
	select {
	case out := <-ch:
		if !g.isLatest(ticket) {
			return outcome{}, ErrSuperseded
		}
		return out, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return outcome{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return outcome{}, ctx.Err()
	}
}
