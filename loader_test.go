package gesturear

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	data := buildGLB(2, pandaJSON)
	mux := http.NewServeMux()
	mux.HandleFunc("/panda.glb", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "model/gltf-binary")
		_, _ = w.Write(data)
	})
	mux.HandleFunc("/broken.glb", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a model"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func awaitTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// --- AssetLoader ---

func TestAssetLoaderLoadModel(t *testing.T) {
	srv := newModelServer(t)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())

	m, err := l.LoadModel(context.Background(), srv.URL+"/panda.glb").Await(awaitTimeout(t))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.Source != srv.URL+"/panda.glb" {
		t.Errorf("Source = %q", m.Source)
	}
	if len(m.Animations) != 2 {
		t.Errorf("Animations = %q", m.Animations)
	}
}

func TestAssetLoaderSharesModel(t *testing.T) {
	data := buildGLB(2, pandaJSON)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())

	first := l.LoadModel(context.Background(), srv.URL+"/panda.glb")
	second := l.LoadModel(context.Background(), srv.URL+"/panda.glb")
	if first != second {
		t.Error("second LoadModel of the same URL should return the first future")
	}
	a, err := first.Await(awaitTimeout(t))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	b, _ := l.LoadModel(context.Background(), srv.URL+"/panda.glb").Await(awaitTimeout(t))
	if a != b {
		t.Error("completed model should be shared")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestAssetLoaderRetriesFailedModel(t *testing.T) {
	data := buildGLB(2, pandaJSON)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())

	if _, err := l.LoadModel(context.Background(), srv.URL+"/panda.glb").Await(awaitTimeout(t)); err == nil {
		t.Fatal("first load should fail")
	}
	// The failed entry is dropped before the future completes.
	m, err := l.LoadModel(context.Background(), srv.URL+"/panda.glb").Await(awaitTimeout(t))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(m.Animations) != 2 {
		t.Errorf("Animations = %q", m.Animations)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestAssetLoaderStatusError(t *testing.T) {
	srv := newModelServer(t)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())

	_, err := l.LoadModel(context.Background(), srv.URL+"/missing.glb").Await(awaitTimeout(t))
	var se *HTTPStatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *HTTPStatusError", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", se.StatusCode)
	}
}

func TestAssetLoaderInvalidModel(t *testing.T) {
	srv := newModelServer(t)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())

	_, err := l.LoadModel(context.Background(), srv.URL+"/broken.glb").Await(awaitTimeout(t))
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("err = %v, want ErrInvalidModel", err)
	}
}

func TestAssetLoaderCancelled(t *testing.T) {
	srv := newModelServer(t)
	l := NewAssetLoader(srv.Client(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.LoadModel(ctx, srv.URL+"/panda.glb").Await(awaitTimeout(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadModel err = %v, want context.Canceled", err)
	}
	if _, err := l.LoadView(ctx, "Panda").Await(awaitTimeout(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadView err = %v, want context.Canceled", err)
	}
}

func TestAssetLoaderLoadView(t *testing.T) {
	l := NewAssetLoader(nil, zerolog.Nop())
	v, err := l.LoadView(context.Background(), "Panda").Await(awaitTimeout(t))
	if err != nil {
		t.Fatalf("LoadView: %v", err)
	}
	if v.Text != "Panda" {
		t.Errorf("Text = %q", v.Text)
	}
}

// --- Future ---

func TestFutureCompletesOnce(t *testing.T) {
	f := newFuture[int]()
	f.complete(1, nil)
	f.complete(2, errors.New("late"))
	v, err := f.Await(context.Background())
	if v != 1 || err != nil {
		t.Errorf("Await = %d, %v; want 1, nil", v, err)
	}
	select {
	case <-f.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestFutureAwaitContext(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// drainUntil drains d until cond holds or the deadline passes.
func drainUntil(t *testing.T, d *Dispatcher, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for dispatcher")
		}
		if d.Drain() == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

func TestFutureThen(t *testing.T) {
	d := &Dispatcher{}

	ok := newFuture[string]()
	var got string
	ok.Then(d, func(s string) { got = s }, func(error) { t.Error("onErr called") })
	ok.complete("panda", nil)
	drainUntil(t, d, func() bool { return got != "" })
	if got != "panda" {
		t.Errorf("got %q, want panda", got)
	}

	bad := newFuture[string]()
	var gotErr error
	bad.Then(d, func(string) { t.Error("onOK called") }, func(err error) { gotErr = err })
	bad.complete("", errors.New("boom"))
	drainUntil(t, d, func() bool { return gotErr != nil })
	if gotErr.Error() != "boom" {
		t.Errorf("err = %v, want boom", gotErr)
	}

	// Nil callbacks are allowed.
	quiet := newFuture[string]()
	quiet.Then(d, nil, nil)
	quiet.complete("", errors.New("ignored"))
	drainUntil(t, d, func() bool { return d.Len() > 0 })
	d.Drain()
}

// --- Dispatcher ---

func TestDispatcherWait(t *testing.T) {
	d := &Dispatcher{}
	d.Wait() // nothing in flight

	a, b := newFuture[int](), newFuture[int]()
	sum := 0
	a.Then(d, func(v int) { sum += v }, nil)
	b.Then(d, func(v int) { sum += v }, nil)
	go a.complete(1, nil)
	go b.complete(2, nil)

	d.Wait()
	if d.Len() != 2 {
		t.Fatalf("Len after Wait = %d, want 2", d.Len())
	}
	if sum != 0 {
		t.Error("callbacks ran before Drain")
	}
	d.Drain()
	if sum != 3 {
		t.Errorf("sum = %d, want 3", sum)
	}
}

func TestDispatcherDrainOrder(t *testing.T) {
	d := &Dispatcher{}
	var order []int
	for i := range 3 {
		d.Post(func() { order = append(order, i) })
	}
	if d.Len() != 3 {
		t.Errorf("Len = %d, want 3", d.Len())
	}
	if n := d.Drain(); n != 3 {
		t.Errorf("Drain = %d, want 3", n)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("order = %v, want [0 1 2]", order)
	}
	if d.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", d.Len())
	}
}

func TestDispatcherPostDuringDrain(t *testing.T) {
	d := &Dispatcher{}
	ran := 0
	d.Post(func() {
		ran++
		d.Post(func() { ran++ })
	})
	if n := d.Drain(); n != 1 {
		t.Errorf("first Drain = %d, want 1", n)
	}
	if ran != 1 {
		t.Errorf("ran = %d after first drain, want 1", ran)
	}
	if n := d.Drain(); n != 1 || ran != 2 {
		t.Errorf("second Drain = %d, ran = %d; want 1, 2", n, ran)
	}
}
