// Package app contains the core application logic. It wires the compiled-in
// type modules into a schema, picks a document reader per file and drives the
// object writer, decoupled from any specific entrypoint like a CLI.
package app
