// Package stream provides the application handlers run on top of an
// established connection.
//
// Echo is the server default and returns every payload to its sender.
// Printer is the client default and writes every payload to an io.Writer,
// one line per message.
package stream
