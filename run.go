package gesturear

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Debug enables scene debug mode (stderr touch log, tree checks).
	Debug bool
}

// App wires a Scene, a Controller and a ToastLayer into an ebiten.Game.
// Losing window focus stops the controller, regaining it starts it again,
// and closing the window destroys it.
type App struct {
	Scene      *Scene
	Controller *Controller
	Toasts     *ToastLayer

	session Session
	log     zerolog.Logger
	fps     *fpsOverlay
	focused bool
	closed  bool
}

// AppDeps are the collaborators NewApp does not create itself.
type AppDeps struct {
	Session Session
	Loader  AssetSource
	Sound   SoundPlayer
	Events  EventSink
	Log     zerolog.Logger
}

// NewApp builds the scene and controller, configures the session and starts
// loading assets.
func NewApp(ctx context.Context, cfg Config, deps AppDeps) (*App, error) {
	if deps.Session == nil {
		return nil, errors.New("gesturear: NewApp requires a session")
	}
	toasts := NewToastLayer()
	ctl := NewController(cfg, ControllerDeps{
		Loader:  deps.Loader,
		Sound:   deps.Sound,
		Toaster: toasts,
		Events:  deps.Events,
		Log:     deps.Log,
	})

	sc := DefaultSessionConfig()
	if err := ctl.OnSessionConfiguration(deps.Session, sc); err != nil {
		return nil, err
	}
	scene := NewScene(deps.Session, cfg.Gesture)
	ctl.OnViewCreated(scene)
	ctl.LoadAssets(ctx)

	return &App{
		Scene:      scene,
		Controller: ctl,
		Toasts:     toasts,
		session:    deps.Session,
		log:        deps.Log,
		focused:    true,
	}, nil
}

// Step advances the app by dt seconds: input, controller, then toasts.
func (a *App) Step(dt float64) {
	a.Scene.Update(dt)
	a.Controller.Update(dt)
	a.Toasts.Update(dt)
	if a.fps != nil {
		a.fps.update(dt)
	}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if a.closed {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}
	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		if focused {
			a.log.Debug().Msg("focus gained")
			a.Controller.OnStart()
		} else {
			a.log.Debug().Msg("focus lost")
			a.Controller.OnStop()
		}
	}
	a.Step(1 / float64(ebiten.TPS()))
	return a.scriptResult()
}

// scriptResult ends the game once an attached script with ExitWhenDone has
// finished, surfacing its error if it gave up.
func (a *App) scriptResult() error {
	r := a.Scene.testRunner
	if r == nil || !r.ExitWhenDone || !r.Done() {
		return nil
	}
	a.Close()
	if err := r.Err(); err != nil {
		return err
	}
	return ebiten.Termination
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.Scene.Draw(screen)
	a.Toasts.Draw(screen)
	if a.fps != nil {
		a.fps.draw(screen)
	}
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.Scene.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close destroys the controller. Later calls do nothing.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.Controller.OnDestroy()
	a.log.Info().Int("anchors", len(a.session.Anchors())).Msg("app closed")
}

// Run opens a window and runs app until the window is closed.
func Run(app *App, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	app.Scene.SetViewport(w, h)
	app.Scene.SetDebugMode(cfg.Debug)
	if cfg.ShowFPS {
		app.fps = newFPSOverlay()
	}

	err := ebiten.RunGame(app)
	app.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
