// Package mail is a small keyboard driven mail client model used by the
// demo. It owns the messages, the current route and the selection, and
// installs its shortcuts through the keymap package.
package mail
