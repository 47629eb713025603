package app

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dvaldron/inputmap/internal/config"
	"github.com/dvaldron/inputmap/internal/input"
	"github.com/dvaldron/inputmap/internal/input/source"
)

// ErrQuit reports a user-requested exit from the interactive loop.
var ErrQuit = errors.New("quit requested")

// Options configure the application.
type Options struct {
	// ConfigPath is the settings file. Empty means built-in defaults.
	ConfigPath string

	// Bindings are extra bindings documents appended after the ones the
	// settings file lists.
	Bindings []string

	// ReplayPath plays back a capture file instead of opening the
	// terminal.
	ReplayPath string

	// CapturePath records every delivered event, overriding the
	// settings file.
	CapturePath string

	// LogLevel overrides the settings file when non-empty.
	LogLevel string

	// Watch reloads bindings documents when they change on disk.
	Watch bool
}

// App owns the binding store and the pieces around it: settings,
// logging, the event source, and the optional file watcher.
type App struct {
	log      *Logger
	opts     Options
	settings config.Settings
	manager  *input.Manager
	watcher  *config.Watcher

	src      input.Source
	terminal *source.Terminal
	shutdown sync.Once
	closing  atomic.Bool

	// bindingPaths are every document applied at startup, in load
	// order; Reload re-applies them in the same order.
	bindingPaths []string
	loadedAny    bool
}

// New loads settings and bindings and prepares the store. No event
// source is opened yet; Run does that.
func New(opts Options) (*App, error) {
	settings := config.DefaultSettings()
	if opts.ConfigPath != "" {
		var err error
		if settings, err = config.LoadSettings(opts.ConfigPath); err != nil {
			return nil, err
		}
		resolvePaths(opts.ConfigPath, &settings)
	}
	settings.ApplyEnv()
	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}
	if opts.CapturePath != "" {
		settings.CapturePath = opts.CapturePath
	}
	settings.Bindings = append(settings.Bindings, opts.Bindings...)

	a := &App{
		log:      NewLogger(LoggerConfig{Level: ParseLogLevel(settings.LogLevel), Prefix: "inputmap"}),
		opts:     opts,
		settings: settings,
		manager:  input.NewManager(input.WithTimeout(settings.PollTimeout())),
	}

	if err := a.applyBindingFiles(); err != nil {
		return nil, err
	}
	if !a.loadedAny {
		a.installBuiltins()
	}

	if opts.Watch {
		if err := a.startWatcher(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// resolvePaths anchors relative document paths to the settings file's
// directory, so a config directory can be moved as a unit.
func resolvePaths(configPath string, settings *config.Settings) {
	dir := filepath.Dir(configPath)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, p := range settings.Bindings {
		settings.Bindings[i] = resolve(p)
	}
	settings.UserBindings = resolve(settings.UserBindings)
	settings.CapturePath = resolve(settings.CapturePath)
}

// Manager exposes the binding store.
func (a *App) Manager() *input.Manager {
	return a.manager
}

// Settings returns the effective settings after overrides.
func (a *App) Settings() config.Settings {
	return a.settings
}

// applyBindingFiles loads every configured document in order: the
// defaults chain first, the user overlay last. A broken defaults file
// is fatal; a broken user overlay is logged and skipped so the program
// still starts with defaults.
func (a *App) applyBindingFiles() error {
	a.bindingPaths = a.bindingPaths[:0]

	for _, path := range a.settings.Bindings {
		b, err := config.LoadBindings(path, a.manager.Tables())
		if err != nil {
			return fmt.Errorf("loading bindings: %w", err)
		}
		if b == nil {
			a.log.Debug("bindings file %s not present, skipping", path)
			continue
		}
		b.Apply(a.manager, false)
		a.bindingPaths = append(a.bindingPaths, path)
		a.loadedAny = true
		a.log.Info("loaded bindings from %s", path)
	}

	if user := a.settings.UserBindings; user != "" {
		b, err := config.LoadBindings(user, a.manager.Tables())
		switch {
		case err != nil:
			a.log.Warn("user bindings %s rejected, continuing with defaults: %v", user, err)
		case b == nil:
			a.log.Debug("user bindings %s not present", user)
		default:
			b.Apply(a.manager, true)
			a.bindingPaths = append(a.bindingPaths, user)
			a.loadedAny = true
			a.log.Info("loaded user bindings from %s", user)
		}
	}
	return nil
}

// Reload re-applies every startup document in its original order, so a
// changed defaults file cannot leapfrog the user overlay.
func (a *App) Reload() {
	user := a.settings.UserBindings
	for _, path := range a.bindingPaths {
		b, err := config.LoadBindings(path, a.manager.Tables())
		if err != nil {
			a.log.Warn("reload of %s rejected, keeping current bindings: %v", path, err)
			continue
		}
		if b == nil {
			continue
		}
		b.Apply(a.manager, path == user)
	}
	a.log.Info("bindings reloaded")
}

// installBuiltins populates the store when no document is configured,
// enough for the interactive demo to be usable out of the box.
func (a *App) installBuiltins() {
	type binding struct {
		action string
		name   string
		events []input.Event
	}
	kb := func(code int, mods ...int) input.Event {
		return input.NewEvent(input.KindKeyboard, code, mods...)
	}
	builtins := []binding{
		{"UP", "Move up", []input.Event{kb('k'), kb(a.manager.Keycode("UP"))}},
		{"DOWN", "Move down", []input.Event{kb('j'), kb(a.manager.Keycode("DOWN"))}},
		{"LEFT", "Move left", []input.Event{kb('h'), kb(a.manager.Keycode("LEFT"))}},
		{"RIGHT", "Move right", []input.Event{kb('l'), kb(a.manager.Keycode("RIGHT"))}},
		{"LEFTUP", "Move up-left", []input.Event{kb('y')}},
		{"RIGHTUP", "Move up-right", []input.Event{kb('u')}},
		{"LEFTDOWN", "Move down-left", []input.Event{kb('b')}},
		{"RIGHTDOWN", "Move down-right", []input.Event{kb('n')}},
		{"CONFIRM", "Confirm", []input.Event{kb(a.manager.Keycode("RETURN"))}},
		{"QUIT", "Quit", []input.Event{kb('q'), kb(a.manager.Keycode("ESC"))}},
	}
	for _, b := range builtins {
		a.manager.SetBindings(b.action, input.DefaultContext, input.ActionAttributes{
			Name:   b.name,
			Events: b.events,
		})
	}
	a.log.Debug("no bindings documents configured, installed built-in defaults")
}

func (a *App) startWatcher() error {
	w, err := config.NewWatcher(0)
	if err != nil {
		return fmt.Errorf("starting bindings watcher: %w", err)
	}
	for _, path := range a.bindingPaths {
		if err := w.Watch(path); err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	a.watcher = w

	// A blocking poll would sit on pending reloads until the next
	// keypress, so watching puts a floor under the poll timeout.
	if a.manager.Timeout() == input.NoTimeout {
		a.manager.SetTimeout(250 * time.Millisecond)
		a.log.Debug("poll timeout set to 250ms for watch mode")
	}
	return nil
}

// pollReload applies a pending watcher notification, if any, without
// blocking. Reloads land between polls, on the same thread that owns
// the store.
func (a *App) pollReload() {
	if a.watcher == nil {
		return
	}
	select {
	case path := <-a.watcher.Reloads():
		a.log.Info("change detected in %s", path)
		a.Reload()
	case err := <-a.watcher.Errors():
		a.log.Warn("bindings watcher: %v", err)
	default:
	}
}

// openSource opens the replay file when one is configured, otherwise
// the terminal, and wraps the result in a capture tee when recording is
// on.
func (a *App) openSource() error {
	if a.opts.ReplayPath != "" {
		rep, err := source.OpenReplay(a.opts.ReplayPath)
		if err != nil {
			return err
		}
		a.src = rep
		a.log.Info("replaying session %s from %s", rep.Session(), a.opts.ReplayPath)
	} else {
		term, err := source.NewTerminal()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		a.terminal = term
		a.src = term
	}

	if path := a.settings.CapturePath; path != "" {
		rec, err := source.NewCapture(a.src, path)
		if err != nil {
			a.src.Close()
			return fmt.Errorf("opening capture file: %w", err)
		}
		a.src = rec
		a.log.Info("recording session %s to %s", rec.Session(), path)
	}

	a.manager.SetSource(a.src)
	return nil
}

// Run opens the event source and runs the echo loop: every resolved
// action is displayed alongside the raw event that produced it, until
// QUIT resolves or the source fails. With a replay source the loop
// simply ends when the recording runs out.
func (a *App) Run() error {
	if err := a.openSource(); err != nil {
		return err
	}

	ctx := input.NewContext(a.manager, input.DefaultContext)
	ctx.RegisterDirections()
	ctx.Register("CONFIRM")
	ctx.Register("QUIT")
	ctx.Register(input.ActionCoordinate)
	ctx.Register(input.ActionAnyInput)
	ctx.SetISO(a.settings.ISOMode)

	var screen *echoScreen
	if a.terminal != nil {
		screen = newEchoScreen(a.terminal.Screen())
		screen.draw()
	}

	for {
		a.pollReload()

		action := ctx.HandleInput()
		ev := ctx.LastEvent()

		switch {
		case ev.Kind == input.KindError:
			// Replay exhaustion, a shutdown-closed source, and terminal
			// failure all end the loop; only the last is an error.
			if a.closing.Load() {
				return nil
			}
			if a.terminal == nil {
				a.log.Info("replay finished")
				return nil
			}
			return fmt.Errorf("input source: %s", ev.Text)

		case action == "QUIT":
			return ErrQuit

		case ev.Kind == input.KindTimeout:
			// Timeout polls only exist to keep reloads timely.
			continue
		}

		line := a.describeResolution(ctx, action, ev)
		if screen != nil {
			screen.append(line)
			screen.draw()
		} else {
			a.log.Info("%s", line)
		}
	}
}

// describeResolution renders one resolved action for the echo display.
func (a *App) describeResolution(ctx *input.Context, action string, ev input.Event) string {
	line := fmt.Sprintf("%-12s %s", action, ev.Describe(a.manager.Tables()))
	if x, y, ok := ctx.Coordinates(); ok {
		line += fmt.Sprintf(" @ (%d, %d)", x, y)
	}
	if dx, dy, ok := ctx.DirectionFor(action); ok {
		line += fmt.Sprintf(" -> (%+d, %+d)", dx, dy)
	}
	return line
}

// DumpBindings writes the whole store as text, one line per action,
// grouped by context.
func (a *App) DumpBindings(w io.Writer) {
	snapshot := a.manager.Snapshot()
	tables := a.manager.Tables()

	contexts := make([]string, 0, len(snapshot))
	for name := range snapshot {
		contexts = append(contexts, name)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		actions := snapshot[context]
		if len(actions) == 0 {
			continue
		}
		fmt.Fprintf(w, "[%s]\n", context)

		ids := make([]string, 0, len(actions))
		for id := range actions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			attrs := actions[id]
			names := make([]string, 0, len(attrs.Events))
			for _, ev := range attrs.Events {
				names = append(names, ev.Describe(tables))
			}
			display := attrs.Name
			if attrs.UserCreated {
				display += " (user)"
			}
			if len(names) == 0 {
				fmt.Fprintf(w, "  %-16s %-24s unbound\n", id, display)
				continue
			}
			fmt.Fprintf(w, "  %-16s %-24s %s\n", id, display, joinNames(names))
		}
		fmt.Fprintln(w)
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// Shutdown releases the watcher and the event source. Safe to call
// before Run, more than once, and from a signal handler goroutine.
func (a *App) Shutdown() {
	a.shutdown.Do(func() {
		a.closing.Store(true)
		if a.watcher != nil {
			a.watcher.Close()
		}
		if a.src != nil {
			a.src.Close()
		}
	})
}

// echoScreen renders the rolling action log onto the tcell screen.
type echoScreen struct {
	screen tcell.Screen
	lines  []string
}

func newEchoScreen(s tcell.Screen) *echoScreen {
	return &echoScreen{screen: s}
}

func (e *echoScreen) append(line string) {
	e.lines = append(e.lines, line)
	_, h := e.screen.Size()
	if keep := h - 2; keep > 0 && len(e.lines) > keep {
		e.lines = e.lines[len(e.lines)-keep:]
	}
}

func (e *echoScreen) draw() {
	e.screen.Clear()
	putString(e.screen, 0, 0, "inputmap echo; press bound keys, q to quit", tcell.StyleDefault.Bold(true))
	for i, line := range e.lines {
		putString(e.screen, 0, i+2, line, tcell.StyleDefault)
	}
	e.screen.Show()
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
