// Package hotkey declares the global capture shortcut. Desktop environments
// do not offer a portable registration API, so by default the binding is
// reported as unavailable and the user wires the shortcut to
// "redactshot grab" in their compositor settings.
package hotkey

// DefaultCombo is the suggested capture shortcut.
const DefaultCombo = "ctrl+alt+a"

// Register attempts to claim combo globally and reports whether the
// platform supports it.
func Register(combo string, fn func()) bool {
	return register(combo, fn)
}
