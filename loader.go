package gesturear

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// maxAssetSize caps the bytes read for a single remote asset.
const maxAssetSize = 64 << 20

// HTTPStatusError reports a non-2xx response while fetching an asset.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// --- Dispatcher ---

// Dispatcher queues work for the game loop goroutine. Post may be called from
// any goroutine; Drain must only be called from the game loop.
type Dispatcher struct {
	mu       sync.Mutex
	queue    []func()
	spare    []func()
	inflight sync.WaitGroup // futures handed to Then and not yet posted
}

// Post queues fn to run on the next Drain.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// Drain runs every queued function in post order and returns how many ran.
// Functions posted while draining run on the next Drain.
func (d *Dispatcher) Drain() int {
	d.mu.Lock()
	run := d.queue
	d.queue = d.spare[:0]
	d.mu.Unlock()

	for i, fn := range run {
		fn()
		run[i] = nil
	}

	d.mu.Lock()
	d.spare = run[:0]
	d.mu.Unlock()
	return len(run)
}

// Len returns the number of queued functions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Wait blocks until every future passed to Then on d has completed and its
// callback has been posted. The callbacks still run on the next Drain.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// --- Future ---

// Future is the result of an asynchronous load. It completes exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
	once sync.Once
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete records the result. Later calls are ignored.
func (f *Future[T]) complete(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future completes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then delivers the result on d's goroutine: onOK on success, onErr on
// failure. Either callback may be nil.
func (f *Future[T]) Then(d *Dispatcher, onOK func(T), onErr func(error)) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		<-f.done
		val, err := f.val, f.err
		d.Post(func() {
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				return
			}
			if onOK != nil {
				onOK(val)
			}
		})
	}()
}

// --- AssetLoader ---

// AssetLoader fetches and decodes scene assets off the game loop. Models are
// shared by URL: a load in flight or completed is returned again instead of
// fetched twice, and a failed load is forgotten so the next call retries.
type AssetLoader struct {
	// Client performs HTTP requests. Nil uses http.DefaultClient.
	Client *http.Client
	// Log receives load diagnostics.
	Log zerolog.Logger

	mu     sync.Mutex
	models map[string]*Future[*ModelRenderable]
}

// NewAssetLoader creates a loader using client (nil for http.DefaultClient).
func NewAssetLoader(client *http.Client, log zerolog.Logger) *AssetLoader {
	return &AssetLoader{Client: client, Log: log}
}

// LoadModel fetches and parses a binary glTF model asynchronously. A shared
// load keeps the context of the call that started it.
func (l *AssetLoader) LoadModel(ctx context.Context, url string) *Future[*ModelRenderable] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.models[url]; ok {
		l.Log.Debug().Str("url", url).Msg("model load shared")
		return f
	}
	if l.models == nil {
		l.models = make(map[string]*Future[*ModelRenderable])
	}
	f := newFuture[*ModelRenderable]()
	l.models[url] = f

	go func() {
		m, err := l.fetchModel(ctx, url)
		if err != nil {
			l.mu.Lock()
			delete(l.models, url)
			l.mu.Unlock()
		}
		f.complete(m, err)
	}()
	return f
}

func (l *AssetLoader) fetchModel(ctx context.Context, url string) (*ModelRenderable, error) {
	data, err := fetchAsset(ctx, l.client(), url)
	if err != nil {
		return nil, err
	}
	m, err := ParseModel(url, data)
	if err != nil {
		return nil, err
	}
	l.Log.Debug().Str("url", url).Int("bytes", len(data)).Strs("animations", m.Animations).Msg("model loaded")
	return m, nil
}

// LoadView builds a label card asynchronously.
func (l *AssetLoader) LoadView(ctx context.Context, text string) *Future[*ViewRenderable] {
	f := newFuture[*ViewRenderable]()
	go func() {
		if err := ctx.Err(); err != nil {
			f.complete(nil, err)
			return
		}
		f.complete(NewViewRenderable(text), nil)
	}()
	return f
}

func (l *AssetLoader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

// fetchAsset performs a GET and returns the body.
func fetchAsset(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", url, maxAssetSize)
	}
	return data, nil
}
