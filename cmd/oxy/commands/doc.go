// Package commands defines the oxy CLI.
//
// Commands
//
//   - oxy --mode server|client   Run one end of the tunnel
//   - fingerprint                Print the server key fingerprint for --password
//   - status                     Query a running process's admin endpoint
//
// # Implementation
//
// The root command binds its flags into app.Config and builds an app.Wire
// before running the selected role. A server echoes every message; a client
// sends each stdin line and prints the replies.
package commands
