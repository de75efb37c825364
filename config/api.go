package config

// APIConfig configures the operator HTTP API. An empty Addr disables
// the server entirely.
type APIConfig struct {
	Addr    string `json:"addr"`
	Token   string `json:"token"`
	KPIPath string `json:"kpi_path"`
}
