package config

const (
	EnvListenAddr = "RISKCHECK_GATEWAY_ADDR"
	EnvUpstream   = "RISKCHECK_UPSTREAM_URL"
)

func parseEnv(config *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(EnvListenAddr); v != "" {
		config.ListenAddr = v
	}
	if v := getenv(EnvUpstream); v != "" {
		config.UpstreamURL = v
	}
}
