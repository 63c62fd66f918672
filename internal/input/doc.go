// Package input dispatches key events to binding handlers.
//
// The input package connects an input source to a keymap.Registry. Each
// raw key event is turned into a key.Combo and matched against the
// registry's enabled bindings; the handlers registered for the matching
// binding names then run in registration order.
//
// # Architecture
//
// The dispatch path consists of several cooperating components:
//
//   - Source: Delivers raw events (see the source subpackage)
//   - Dispatcher: Converts, matches, filters and suppresses
//   - Executor: Runs each handler with panic recovery and timing
//   - Metrics: Counts events, handler runs and faults
//
// # Focus
//
// While an input, textarea or select element has focus (Event.Target),
// only handlers registered as global fire, so shortcuts do not steal
// keys from text fields.
//
// # Listening
//
// Enable subscribes to the source and Disable unsubscribes. Both are
// safe to call from inside a handler; the change is applied when the
// current dispatch ends.
//
// # Usage
//
//	reg := keymap.NewRegistry()
//	_ = reg.AddStrings("save", "Save", "CTRL+S")
//	_, _ = reg.RegisterHandler("save", keymap.Action(save))
//
//	src := source.NewMemory()
//	d := input.New(reg, src)
//	d.Enable()
//
//	src.Press(83, key.ModCtrl) // runs save
package input
