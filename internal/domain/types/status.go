package types

// Health is the body served by the admin /healthz endpoint.
type Health struct {
	Status            string `json:"status"`
	Mode              string `json:"mode"`
	ActiveConnections int64  `json:"active_connections"`
}
