// Package cli provides the interactive notes client.
//
// App wraps a services.NoteRepository in a line-oriented REPL. Every command
// works offline; writes reach the server when connectivity allows. Start it
// with App.Run, which blocks until the user exits or input ends.
package cli
