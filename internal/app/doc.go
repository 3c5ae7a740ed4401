// Package app wires application dependencies for the CLI.
//
// It validates Config, builds the logger, metrics, identity service and the
// optional admin endpoint, and exposes them via Wire. RunServer and RunClient
// drive one process role to completion.
package app
