package test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kubev2v/jobrunner/pkg/registry"
)

// OverlapHandler records how many of its executions overlap in time.
type OverlapHandler struct {
	Delay time.Duration

	mu      sync.Mutex
	current int
	peak    int
	calls   int
}

func NewOverlapHandler(delay time.Duration) *OverlapHandler {
	return &OverlapHandler{Delay: delay}
}

func (p *OverlapHandler) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	p.mu.Lock()
	p.calls++
	p.current++
	if p.current > p.peak {
		p.peak = p.current
	}
	p.mu.Unlock()

	time.Sleep(p.Delay)

	p.mu.Lock()
	p.current--
	p.mu.Unlock()

	return "ok", nil
}

// Peak is the largest number of overlapping executions observed.
func (p *OverlapHandler) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

func (p *OverlapHandler) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// BlockingHandler parks every execution until Release is called.
type BlockingHandler struct {
	started chan string
	release chan struct{}
	once    sync.Once
}

func NewBlockingHandler() *BlockingHandler {
	return &BlockingHandler{
		started: make(chan string, 128),
		release: make(chan struct{}),
	}
}

func (b *BlockingHandler) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	b.started <- string(payload)
	<-b.release
	return "released", nil
}

// Started receives the payload of each execution as it begins.
func (b *BlockingHandler) Started() <-chan string {
	return b.started
}

func (b *BlockingHandler) Release() {
	b.once.Do(func() { close(b.release) })
}

// Ensure both handlers implement registry.Handler.
var (
	_ registry.Handler = (*OverlapHandler)(nil)
	_ registry.Handler = (*BlockingHandler)(nil)
)
