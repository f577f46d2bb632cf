package watcher

import (
	"fmt"
	"sync"
	"time"
)

// changeBatcher coalesces bursts of script-change events into one analysis
// pass. Editors and the engine's asset pipeline touch a saved .cs file several
// times in quick succession; the batcher holds events until the burst settles,
// then hands the distinct script paths to the handler once.
type changeBatcher struct {
	settle  time.Duration
	pending map[string]FileChangeEvent
	timer   *time.Timer
	mutex   sync.Mutex
	done    chan struct{}
}

func newChangeBatcher(settle time.Duration) *changeBatcher {
	return &changeBatcher{
		settle:  settle,
		pending: make(map[string]FileChangeEvent),
		done:    make(chan struct{}),
	}
}

// add records a script change and restarts the settle timer. Later events for
// the same path replace earlier ones, so a path is analyzed once per batch.
func (b *changeBatcher) add(event FileChangeEvent, handler FileChangeHandler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.pending[event.Path] = event
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.settle, func() {
		b.flush(handler)
	})
}

func (b *changeBatcher) flush(handler FileChangeHandler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if len(b.pending) == 0 {
		return
	}
	scripts := make([]string, 0, len(b.pending))
	for path := range b.pending {
		scripts = append(scripts, path)
	}
	b.pending = make(map[string]FileChangeEvent)
	if err := handler(scripts); err != nil {
		fmt.Printf("Handler error: %v\n", err)
	}
}

func (b *changeBatcher) stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	close(b.done)
}
