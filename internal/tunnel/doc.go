// Package tunnel offers the oxy protocol as a blocking net.Conn.
//
// Client and Server run the handshake on a raw connection and return a Conn
// whose Read and Write carry framed, encrypted data. ServerCredentials and
// ClientCredentials plug the same handshake into gRPC as transport security.
//
// The handshake is one message from client to server, so a client cannot tell
// a wrong password from a slow server: a mismatched server simply closes the
// connection after reading the handshake.
package tunnel
