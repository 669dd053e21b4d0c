package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/green_homes/internal/storage"
)

const writeTimeout = 5 * time.Second

// writer persists cart snapshots in the background. Only the latest pending
// snapshot is kept, so a burst of transitions results in one write.
type writer struct {
	st  storage.Storage
	key string
	log *slog.Logger

	mu      sync.Mutex
	pending []byte

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func newWriter(st storage.Storage, key string, l *slog.Logger) *writer {
	w := &writer{
		st:   st,
		key:  key,
		log:  l,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) enqueue(data []byte) {
	w.mu.Lock()
	w.pending = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.quit:
			w.flush()
			return
		}
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	data := w.pending
	w.pending = nil
	w.mu.Unlock()
	if data == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := w.st.Set(ctx, w.key, data); err != nil {
		w.log.Error("cart_persist_error", "key", w.key, "error", err)
	}
}

// close stops the writer after the pending snapshot is written.
func (w *writer) close(ctx context.Context) error {
	w.once.Do(func() { close(w.quit) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
