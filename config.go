package gitden

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gitden/gitden-go/session"
)

// Config collects the environment knobs a deployment tunes without code
// changes. Credentials themselves live in the session store, never here.
type Config struct {
	// APIURL is the backend origin; the /api base path is appended per call.
	APIURL string `envconfig:"GITDEN_API_URL" default:"http://localhost:3000"`

	// HTTPTimeout bounds each request end to end.
	HTTPTimeout time.Duration `envconfig:"GITDEN_HTTP_TIMEOUT" default:"30s"`

	// CredentialsFile overrides the default credentials file location.
	CredentialsFile string `envconfig:"GITDEN_CREDENTIALS_FILE"`
}

// ConfigFromEnv reads Config from the process environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromEnv builds a Client wired to a file-backed session, both configured
// from the environment. This is the constructor the CLI uses.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	path := cfg.CredentialsFile
	if path == "" {
		path, err = session.DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}
	sess, err := session.New(session.NewFileStore(path))
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithHTTPTimeout(cfg.HTTPTimeout)}, opts...)
	return New(cfg.APIURL, sess, opts...)
}
