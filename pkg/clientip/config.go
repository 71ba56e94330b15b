package clientip

// Config lists the proxy headers to trust, highest priority first.
type Config struct {
	Headers []string `env:"CLIENTIP_HEADERS" envSeparator:"," envDefault:"X-Forwarded-For,X-Real-IP"`
}
