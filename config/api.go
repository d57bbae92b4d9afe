package config

// APIConfig configures the HTTP server started by "rescuesim serve".
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
