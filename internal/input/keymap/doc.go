// Package keymap provides the named binding registry.
//
// A Binding gives a name to one or more key combos. Handlers are attached
// to binding names rather than to combos, so the set of bindings can be
// serialized, edited and loaded again without touching any code.
//
// # Key Concepts
//
// Binding: A name, an optional description, the combos that trigger it
// and an enabled flag.
//
// Registration: A handler attached to a binding name for one event type.
// Global registrations fire even while a text field has focus.
//
// Toggle: A registration that alternates between an "on" and an "off"
// handler, starting off.
//
// # Matching
//
// HandlersForCombo returns, in registration order, the registrations of
// every enabled binding holding a combo that matches the observed one.
// Matching uses key.Combo.Matches unless the registry is strict, in which
// case key.Combo.Equal is used.
//
// # Usage
//
//	reg := keymap.NewRegistry()
//	save := reg.Catalog().MustParseCombo("CTRL+S")
//	_ = reg.AddWithDescription("save", "Save the draft", save)
//	_, _ = reg.RegisterHandler("save", keymap.Action(saveDraft))
//
//	doc, _ := reg.Serialize()
//	// later, or in another process
//	_ = reg.Deserialize(doc)
package keymap
