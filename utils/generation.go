package utils

import (
	"context"
	"sync"
	"sync/atomic"
)

// ViewGenerations tags requests of the same view (a filterable page of one client) so that
// only the newest one is allowed to answer. Starting a request cancels the previous one.
type ViewGenerations interface {
	Begin(ctx context.Context, viewId string) (context.Context, *Generation)
	Len() int
}

func NewViewGenerations() ViewGenerations {
	return &viewGenerationsImpl{views: make(map[string]*Generation)}
}

type viewGenerationsImpl struct {
	counter atomic.Uint64
	mutex   sync.Mutex
	views   map[string]*Generation
}

type Generation struct {
	ViewId     string
	Number     uint64
	owner      *viewGenerationsImpl
	cancel     context.CancelFunc
	superseded atomic.Bool
}

// Begin returns a context that is cancelled as soon as a newer request of viewId begins.
// An empty viewId is not tracked.
func (v *viewGenerationsImpl) Begin(ctx context.Context, viewId string) (context.Context, *Generation) {
	if viewId == "" {
		return ctx, &Generation{}
	}
	ctx, cancel := context.WithCancel(ctx)
	gen := &Generation{ViewId: viewId, Number: v.counter.Add(1), owner: v, cancel: cancel}

	v.mutex.Lock()
	if prev, exists := v.views[viewId]; exists {
		prev.superseded.Store(true)
		prev.cancel()
	}
	v.views[viewId] = gen
	v.mutex.Unlock()

	return ctx, gen
}

func (v *viewGenerationsImpl) Len() int {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return len(v.views)
}

// IsCurrent reports whether no newer request of the same view has begun.
func (g *Generation) IsCurrent() bool {
	return !g.superseded.Load()
}

// Done releases the request context. Must be called once the response has been produced.
func (g *Generation) Done() {
	if g.owner == nil {
		return
	}
	g.owner.mutex.Lock()
	if current, exists := g.owner.views[g.ViewId]; exists && current == g {
		delete(g.owner.views, g.ViewId)
	}
	g.owner.mutex.Unlock()
	g.cancel()
}
