package gesturear

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
)

var (
	// ErrReleased is returned by a SoundPlayer used after Release.
	ErrReleased = errors.New("gesturear: sound player released")
	// ErrNoDataSource is returned by Prepare before SetDataSource.
	ErrNoDataSource = errors.New("gesturear: no data source set")
	// ErrNoAudioContext is returned by Prepare on a player built without an
	// audio context.
	ErrNoAudioContext = errors.New("gesturear: no audio context")
)

// pcmStream is decoded audio that knows its byte length.
type pcmStream interface {
	io.ReadSeeker
	Length() int64
}

// clipPlayer is the part of *audio.Player a StreamPlayer drives.
type clipPlayer interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	Close() error
}

func decodeVorbis(sampleRate int, data []byte) (pcmStream, error) {
	s, err := vorbis.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SoundPlayer plays a single remote audio clip.
//
// The lifecycle is SetDataSource -> Prepare -> Start/Pause/Stop, with Reset
// returning the player to the unprepared state and Release freeing it for
// good. Start, Pause and Stop on an unprepared player are no-ops.
type SoundPlayer interface {
	SetDataSource(url string) error
	Prepare(ctx context.Context) error
	Start()
	Pause()
	Stop()
	Reset()
	Release()
	IsPlaying() bool
}

// StreamPlayer is a SoundPlayer that downloads an Ogg/Vorbis clip over HTTP
// and plays it through an ebiten audio context. With Looping set the clip
// repeats natively, without being fetched again.
//
// Prepare may run on any goroutine; the remaining methods are meant for the
// game loop.
type StreamPlayer struct {
	// Looping repeats the clip until stopped.
	Looping bool

	mu         sync.Mutex
	client     *http.Client
	sampleRate int
	decode     func(sampleRate int, data []byte) (pcmStream, error)
	newPlayer  func(src io.Reader) (clipPlayer, error)
	url        string
	player     clipPlayer
	released   bool
}

// NewStreamPlayer creates a player on actx. A nil client uses
// http.DefaultClient.
func NewStreamPlayer(actx *audio.Context, client *http.Client) *StreamPlayer {
	if client == nil {
		client = http.DefaultClient
	}
	p := &StreamPlayer{client: client, decode: decodeVorbis, Looping: true}
	if actx != nil {
		p.sampleRate = actx.SampleRate()
		p.newPlayer = func(src io.Reader) (clipPlayer, error) {
			return actx.NewPlayer(src)
		}
	}
	return p
}

// SetDataSource sets the clip URL for the next Prepare.
func (p *StreamPlayer) SetDataSource(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	p.url = url
	return nil
}

// Prepare downloads and decodes the clip. It blocks on network I/O.
func (p *StreamPlayer) Prepare(ctx context.Context) error {
	p.mu.Lock()
	url, released := p.url, p.released
	p.mu.Unlock()
	if released {
		return ErrReleased
	}
	if url == "" {
		return ErrNoDataSource
	}

	data, err := fetchAsset(ctx, p.client, url)
	if err != nil {
		return err
	}
	stream, err := p.decode(p.sampleRate, data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	var src io.Reader = stream
	if p.Looping {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}
	if p.newPlayer == nil {
		return ErrNoAudioContext
	}
	player, err := p.newPlayer(src)
	if err != nil {
		return fmt.Errorf("create player for %s: %w", url, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || p.url != url {
		// Reset or released while downloading.
		_ = player.Close()
		return ErrReleased
	}
	if p.player != nil {
		_ = p.player.Close()
	}
	p.player = player
	return nil
}

// Start begins or resumes playback.
func (p *StreamPlayer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Play()
	}
}

// Pause halts playback at the current position.
func (p *StreamPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Pause()
	}
}

// Stop halts playback and rewinds to the start.
func (p *StreamPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return
	}
	p.player.Pause()
	_ = p.player.Rewind()
}

// Reset discards the prepared clip and the data source.
func (p *StreamPlayer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *StreamPlayer) resetLocked() {
	if p.player != nil {
		_ = p.player.Close()
		p.player = nil
	}
	p.url = ""
}

// Release frees the player. Every later call fails or does nothing.
func (p *StreamPlayer) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.released = true
}

// IsPlaying reports whether the clip is audible.
func (p *StreamPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}
