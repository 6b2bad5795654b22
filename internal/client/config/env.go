package config

const (
	EnvAPIURL    = "RISKCHECK_API_URL"
	EnvSessionDB = "RISKCHECK_SESSION_DB"
)

func parseEnv(config *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(EnvAPIURL); v != "" {
		config.APIURL = v
	}
	if v := getenv(EnvSessionDB); v != "" {
		config.SessionDB = v
	}
}
