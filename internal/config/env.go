package config

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// HostsFile is the path to a YAML file listing wiki hosts and tokens.
	// Env: HOSTS_FILE
	HostsFile string `envconfig:"HOSTS_FILE"`

	// WikiHost is a single wiki host, paired with WIKI_TOKEN. Convenient
	// for one-host setups without a hosts file.
	// Env: WIKI_HOST
	WikiHost string `envconfig:"WIKI_HOST"`

	// WikiToken is the API token for WIKI_HOST.
	// Env: WIKI_TOKEN
	WikiToken string `envconfig:"WIKI_TOKEN"`

	// AttachmentParallelism bounds concurrent attachment downloads per page.
	// Env: ATTACHMENT_PARALLELISM (default: 4)
	AttachmentParallelism int `envconfig:"ATTACHMENT_PARALLELISM" default:"4"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig, loading the hosts file when
// one is configured.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	var opts []AppConfigOption
	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	opts = append(opts, WithAttachmentParallelism(e.AttachmentParallelism))

	if e.HostsFile != "" {
		wikis, err := LoadHosts(e.HostsFile)
		if err != nil {
			return AppConfig{}, err
		}
		for _, w := range wikis {
			opts = append(opts, WithWiki(w))
		}
	}

	if single := NewWikiHost(e.WikiHost, e.WikiToken); single.IsConfigured() {
		opts = append(opts, WithWiki(single))
	}

	return cfg.Apply(opts...), nil
}
