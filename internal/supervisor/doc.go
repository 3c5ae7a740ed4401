// Package supervisor accepts or opens TCP connections and gives each one its
// own conn.Loop.
//
// The server runs every connection on its own goroutine. A failing connection
// is logged and counted and never stops the accept loop. Serve returns once
// the context is cancelled and every connection goroutine has exited.
package supervisor
