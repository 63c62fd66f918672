// Package macro records key events from a source and replays them.
//
// A Recorder subscribes to an input source and captures each event with
// its offset from the start of the recording. A Player emits the events
// again, optionally paced like the original. Macros persist as JSON.
//
//	rec := macro.NewRecorder(src)
//	_ = rec.Start()
//	// ... keys are pressed ...
//	m := rec.Stop()
//	_ = macro.Save(m, "session.json")
//
//	err := macro.NewPlayer().Play(ctx, m, mem, 1)
//
// Recorders and players are safe for concurrent use.
package macro
