// Package config loads and saves the engine's external state.
//
// Two kinds of file are handled. Bindings documents carry the full
// action store, context by context, together with the keyboard and
// gamepad key-name tables; they are JSON or YAML by extension. Settings
// files carry runtime options such as the poll timeout and live in
// TOML, with environment overrides applied on top.
//
// # Load Order
//
// Bindings documents layer: a defaults file is loaded first and user
// files after it, and a later file fully replaces every
// (context, action) pair it names. A file is parsed and validated in
// its entirety before any of it is applied, so a malformed file leaves
// the store exactly as it was.
//
// # Live Reload
//
// Watcher notifies on a channel when a watched file changes, debouncing
// rapid rewrites. It never touches the store itself; the owning thread
// reloads at a point of its choosing.
package config
