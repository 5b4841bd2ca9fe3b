// Package workspace manages the directory a composer writes generated theme
// templates into.
//
// Ephemeral mode creates a uniquely named directory (e.g. techdocs-core-1234567)
// that is removed on Cleanup.
//
// Persistent mode uses a fixed path that survives Cleanup, so a composed
// configuration written to disk keeps pointing at a real directory.
package workspace
