package syncqueue

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Group owns one Queue per resource.
type Group struct {
	opts   Options
	logger *zap.Logger

	mu     sync.Mutex
	queues map[string]*Queue
}

func NewGroup(opts Options, logger *zap.Logger) *Group {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Group{opts: opts, logger: logger, queues: make(map[string]*Queue)}
}

// Submit schedules job on the queue for resource.
func (g *Group) Submit(resource string, job Job) {
	g.Queue(resource).Submit(job)
}

// Queue returns the queue for resource, creating it on first use.
func (g *Group) Queue(resource string) *Queue {
	g.mu.Lock()
	defer g.mu.Unlock()

	q, ok := g.queues[resource]
	if !ok {
		q = New(resource, g.opts, g.logger)
		g.queues[resource] = q
	}
	return q
}

// Resources lists the resources seen so far in sorted order.
func (g *Group) Resources() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.queues))
	for name := range g.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush waits for every queue concurrently.
func (g *Group) Flush(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, q := range g.snapshot() {
		eg.Go(func() error {
			return q.Flush(ctx)
		})
	}
	return eg.Wait()
}

// Close closes every queue.
func (g *Group) Close() {
	var wg sync.WaitGroup
	for _, q := range g.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Close()
		}()
	}
	wg.Wait()
}

func (g *Group) snapshot() []*Queue {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Queue, 0, len(g.queues))
	for _, q := range g.queues {
		out = append(out, q)
	}
	return out
}
