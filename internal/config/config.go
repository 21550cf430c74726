package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultM2MBaseURL is the stable USGS M2M JSON endpoint.
const DefaultM2MBaseURL = "https://m2m.cr.usgs.gov/api/api/json/stable/"

// Config holds application configuration.
type Config struct {
	M2MBaseURL string
	Username   string
	Token      string

	OutputDir string
	Timeout   time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

// fileConfig is the layout of the optional TOML configuration file.
type fileConfig struct {
	M2M struct {
		BaseURL  string `toml:"base_url"`
		Username string `toml:"username"`
		Token    string `toml:"token"`
	} `toml:"m2m"`
	Download struct {
		Output  string `toml:"output"`
		Timeout int    `toml:"timeout"`
	} `toml:"download"`
	MinIO struct {
		Endpoint  string `toml:"endpoint"`
		AccessKey string `toml:"access_key"`
		SecretKey string `toml:"secret_key"`
		Bucket    string `toml:"bucket"`
		UseSSL    bool   `toml:"use_ssl"`
	} `toml:"minio"`
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is not empty) and environment variables, later sources winning.
// Credentials are checked separately by RequireCredentials.
func Load(path string) (*Config, error) {
	config := Config{
		M2MBaseURL: DefaultM2MBaseURL,
		OutputDir:  ".",
		Timeout:    300 * time.Second,
	}

	if path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	setFromEnv(&config.M2MBaseURL, "M2M_BASE_URL")
	setFromEnv(&config.Username, "LANDSATXPLORE_USERNAME", "M2M_USERNAME")
	setFromEnv(&config.Token, "LANDSATXPLORE_PASSWORD", "M2M_TOKEN")
	setFromEnv(&config.MinIOEndpoint, "MINIO_ENDPOINT")
	setFromEnv(&config.MinIOAccessKey, "MINIO_ACCESS_KEY")
	setFromEnv(&config.MinIOSecretKey, "MINIO_SECRET_KEY")
	setFromEnv(&config.MinIOBucket, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		config.MinIOUseSSL = useSSL
	}

	if config.MinIOEndpoint != "" {
		required := []struct{ name, value string }{
			{"MINIO_ACCESS_KEY", config.MinIOAccessKey},
			{"MINIO_SECRET_KEY", config.MinIOSecretKey},
			{"MINIO_BUCKET", config.MinIOBucket},
		}
		for _, r := range required {
			if r.value == "" {
				return nil, &ErrMissingRequiredEnvVar{Name: r.name}
			}
		}
	}

	return &config, nil
}

// MirrorEnabled reports whether downloads are mirrored to object storage.
func (c *Config) MirrorEnabled() bool {
	return c.MinIOEndpoint != ""
}

// RequireCredentials checks that a username and token are present.
func (c *Config) RequireCredentials() error {
	if c.Username == "" {
		return &ErrMissingRequiredEnvVar{Name: "M2M_USERNAME"}
	}
	if c.Token == "" {
		return &ErrMissingRequiredEnvVar{Name: "M2M_TOKEN"}
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIfNotEmpty(&c.M2MBaseURL, fc.M2M.BaseURL)
	setIfNotEmpty(&c.Username, fc.M2M.Username)
	setIfNotEmpty(&c.Token, fc.M2M.Token)
	setIfNotEmpty(&c.OutputDir, fc.Download.Output)
	if fc.Download.Timeout > 0 {
		c.Timeout = time.Duration(fc.Download.Timeout) * time.Second
	}
	setIfNotEmpty(&c.MinIOEndpoint, fc.MinIO.Endpoint)
	setIfNotEmpty(&c.MinIOAccessKey, fc.MinIO.AccessKey)
	setIfNotEmpty(&c.MinIOSecretKey, fc.MinIO.SecretKey)
	setIfNotEmpty(&c.MinIOBucket, fc.MinIO.Bucket)
	c.MinIOUseSSL = fc.MinIO.UseSSL
	return nil
}

// setFromEnv assigns the value of the last non-empty variable in names.
func setFromEnv(dst *string, names ...string) {
	for i := len(names) - 1; i >= 0; i-- {
		if v := os.Getenv(names[i]); v != "" {
			*dst = v
			return
		}
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
