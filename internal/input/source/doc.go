// Package source provides input sources for the dispatcher.
//
// A source delivers raw key events to subscribers by event type.
// Memory is a headless source for tests and scripted runs; Terminal
// reads key events from a tcell screen and reports them with browser
// key codes.
package source
