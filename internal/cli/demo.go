package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/config"
	"github.com/dshills/keys/internal/input"
	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
	"github.com/dshills/keys/internal/input/macro"
	"github.com/dshills/keys/internal/input/source"
	"github.com/dshills/keys/internal/mail"
	"github.com/dshills/keys/internal/plugin/lua"
	"github.com/dshills/keys/internal/screen"
)

// quitBinding stops the demo. It is global so it works while typing.
const quitBinding = "quit"

func newDemoCommand(rt *runtime) *cobra.Command {
	var logFile, record string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the keyboard driven mail client demo",
		Long: `Run a small mail client in the terminal, driven entirely by shortcuts.

The bindings file is loaded when it exists, with its actions resolved
against the mail client; otherwise the built-in shortcuts are used.
Configured Lua scripts run next and may add bindings of their own.
With watch enabled, edits to the bindings file apply immediately.

Press SHIFT+S to list the shortcuts and CTRL+Q to quit.

With --record, the session's key events are saved on exit and can be
played back with the replay command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			logger, err := rt.cfg.Log.Logger(out)
			if err != nil {
				return err
			}
			rt.logger = logger

			s, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := s.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer s.Fini()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var d *demo
			term := source.NewTerminal(s,
				source.WithFocus(func() string { return d.app.Focus() }),
				source.WithEventHook(func(ev tcell.Event) {
					if _, ok := ev.(*tcell.EventResize); ok {
						s.Sync()
						d.draw()
					}
				}),
			)
			d, err = rt.newDemo(term, s, cancel)
			if err != nil {
				return err
			}
			defer d.Close()

			var rec *macro.Recorder
			if record != "" {
				rec = macro.NewRecorder(term)
				if err := rec.Start(); err != nil {
					return err
				}
			}

			d.draw()
			if err := term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			if rec != nil {
				m := rec.Stop()
				if err := macro.Save(m, record); err != nil {
					return err
				}
				rt.logger.Info("[input] saved recording", "path", record, "steps", len(m.Steps))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().StringVar(&record, "record", "", "Save the session's key events to this file")
	return cmd
}

// demo wires the mail client to a source and a canvas.
type demo struct {
	app        *mail.App
	reg        *keymap.Registry
	dispatcher *input.Dispatcher
	engine     *lua.Engine
	watcher    *config.Watcher
	src        input.Source
	canvas     screen.Canvas
	logger     *slog.Logger

	drawMu sync.Mutex
	subs   []string
}

func (rt *runtime) newDemo(src input.Source, canvas screen.Canvas, quit func()) (*demo, error) {
	d := &demo{
		app:    mail.NewApp(rt.logger, mail.SampleEmails()...),
		reg:    rt.newRegistry(),
		src:    src,
		canvas: canvas,
		logger: rt.logger,
	}

	loaded, err := d.loadBindings(rt.cfg.Bindings)
	if err != nil {
		return nil, err
	}
	fromFile := make(map[string]bool)
	for _, b := range d.reg.Bindings() {
		fromFile[b.Name] = true
	}
	if err := d.reg.Load(keymap.Spec{
		Name:        quitBinding,
		Description: "Demo: Quit",
		Combos:      []string{"CTRL+Q"},
		Global:      true,
		Handler:     keymap.Action(quit),
	}); err != nil {
		return nil, err
	}

	d.dispatcher = input.New(d.reg, src,
		input.WithLogger(rt.logger),
		input.WithEnv(d.env),
	)
	d.dispatcher.Enable()

	// Subscribed after the dispatcher so handlers run before the redraw.
	d.subs = append(d.subs,
		src.Subscribe(key.KeyPress, d.typed),
		src.Subscribe(key.KeyDown, func(*key.Event) { d.draw() }),
	)

	d.engine = lua.NewEngine(d.reg, lua.WithListener(d.dispatcher), lua.WithLogger(rt.logger))
	for _, path := range rt.cfg.Scripts {
		if err := d.engine.RunFile(path); err != nil {
			d.Close()
			return nil, err
		}
	}

	if rt.cfg.Watch && loaded {
		// The quit binding and script bindings are not in the file.
		var keep []string
		for _, b := range d.reg.Bindings() {
			if !fromFile[b.Name] {
				keep = append(keep, b.Name)
			}
		}
		w, err := config.NewWatcher(rt.cfg.Bindings, config.BindingsReloader(d.reg, keep...),
			config.WithDebounce(time.Duration(rt.cfg.Debounce)),
			config.WithWatchLogger(rt.logger),
			config.WithNotify(func(error) { d.draw() }),
		)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.watcher = w
	}
	return d, nil
}

// loadBindings loads path when it exists and the built-in shortcuts
// otherwise. Reports whether path was used.
func (d *demo) loadBindings(path string) (bool, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := keymap.LoadSpecFile(d.reg, path, mail.Actions(d.app)); err != nil {
				return false, err
			}
			d.logger.Info("[keymap] loaded bindings", "path", path, "bindings", d.reg.Len())
			return true, nil
		}
	}
	d.logger.Info("[keymap] using built-in bindings")
	return false, mail.Install(d.reg, d.app)
}

// env exposes app state to When conditions.
func (d *demo) env(*key.Event) map[string]any {
	r := d.app.Route()
	return map[string]any{
		"route":    r.String(),
		"page":     string(r.Page),
		"selected": d.app.Selected() != "",
	}
}

// typed feeds printable keys to the search box.
func (d *demo) typed(ev *key.Event) {
	if d.app.Focus() != mail.FocusSearchBox {
		return
	}
	if text := typedText(d.reg.Catalog(), ev); text != "" {
		d.app.Type(text)
		d.draw()
	}
}

func (d *demo) draw() {
	d.drawMu.Lock()
	defer d.drawMu.Unlock()
	mail.Render(d.canvas, d.app, d.reg, mail.StatusLine(d.app))
}

// Close detaches the demo from its source.
func (d *demo) Close() error {
	var errs []error
	if d.watcher != nil {
		errs = append(errs, d.watcher.Close())
	}
	if d.engine != nil {
		errs = append(errs, d.engine.Close())
	}
	if d.dispatcher != nil {
		d.dispatcher.Disable()
	}
	for _, id := range d.subs {
		d.src.Unsubscribe(id)
	}
	d.subs = nil
	return errors.Join(errs...)
}

// typedText returns the character a key press types, or "".
func typedText(cat *key.Catalog, ev *key.Event) string {
	k, ok := cat.ByCode(ev.Code)
	if !ok {
		return ""
	}
	switch {
	case k.Name == "Spacebar":
		return " "
	case len(k.Name) != 1:
		return ""
	case k.Name[0] >= 'A' && k.Name[0] <= 'Z':
		if ev.Shift {
			return k.Name
		}
		return strings.ToLower(k.Name)
	case k.Name[0] >= '0' && k.Name[0] <= '9':
		return k.Name
	}
	return ""
}
