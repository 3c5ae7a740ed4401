// Package status serves and queries the admin endpoint of an oxy process.
//
// The server exposes GET /metrics in the Prometheus text format and
// GET /healthz as JSON. Client fetches /healthz for the status command.
package status
