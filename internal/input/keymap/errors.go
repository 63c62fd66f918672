package keymap

import "errors"

// Sentinel errors for the binding registry.
var (
	// ErrEmptyName is returned when a binding or handler has no name.
	ErrEmptyName = errors.New("binding name cannot be empty")

	// ErrNoCombos is returned when a binding is added without any combo.
	ErrNoCombos = errors.New("binding requires at least one combo")

	// ErrDuplicateName is returned when a binding set names a binding twice.
	ErrDuplicateName = errors.New("duplicate binding name")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidCondition is returned when a When expression does not compile.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrInvalidDocument is returned when a serialized registry cannot be decoded.
	ErrInvalidDocument = errors.New("invalid binding document")

	// ErrBindingNotFound is returned when a document has no binding with the given name.
	ErrBindingNotFound = errors.New("binding not found")

	// ErrUnknownAction is returned when a spec names an action missing from the action table.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnsupportedFormat is returned for spec files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported spec file format")
)
