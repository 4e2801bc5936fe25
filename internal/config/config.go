// Package config loads scraper settings from the environment and an optional
// YAML, JSON, TOML or .env file.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Proxy struct {
		Scheme   string `yaml:"scheme" json:"scheme" env:"PROXY_SCHEME" env-default:"http" env-description:"proxy scheme: http, https or socks5"`
		Host     string `yaml:"host" json:"host" env:"PROXY_HOST" env-description:"proxy host; empty disables the proxy"`
		Port     int    `yaml:"port" json:"port" env:"PROXY_PORT" env-default:"22225"`
		Username string `yaml:"username" json:"username" env:"PROXY_USERNAME" env-description:"base identity; each call appends -session-<id>"`
		Password string `yaml:"password" json:"password" env:"PROXY_PASSWORD"`
	} `yaml:"proxy" json:"proxy"`

	Instagram struct {
		BaseURL           string        `yaml:"base_url" json:"base_url" env:"INSTAGRAM_BASE_URL" env-default:"https://www.instagram.com"`
		MaxPosts          int           `yaml:"max_posts" json:"max_posts" env:"INSTAGRAM_MAX_POSTS" env-default:"20"`
		ScrollDelay       time.Duration `yaml:"scroll_delay" json:"scroll_delay" env:"INSTAGRAM_SCROLL_DELAY" env-default:"1500ms"`
		NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout" env:"INSTAGRAM_NAVIGATION_TIMEOUT" env-default:"30s"`
		RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout" env:"INSTAGRAM_REQUEST_TIMEOUT" env-default:"30s"`
		ProfileDelay      time.Duration `yaml:"profile_delay" json:"profile_delay" env:"INSTAGRAM_PROFILE_DELAY" env-default:"1s"`
		Retries           uint64        `yaml:"retries" json:"retries" env:"INSTAGRAM_RETRIES" env-default:"2"`
		Descriptor        string        `yaml:"descriptor" json:"descriptor" env:"INSTAGRAM_DESCRIPTOR" env-description:"JSON file overriding page locators"`
		BlockResources    bool          `yaml:"block_resources" json:"block_resources" env:"INSTAGRAM_BLOCK_RESOURCES" env-default:"false"`
	} `yaml:"instagram" json:"instagram"`

	Log struct {
		Level  string `yaml:"level" json:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" json:"format" env:"LOG_FORMAT" env-default:"console"`
		File   string `yaml:"file" json:"file" env:"LOG_FILE"`
	} `yaml:"log" json:"log"`
}

// Load reads path when given, then the environment on top of it.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage describes every environment variable.
func Usage() string {
	help, _ := cleanenv.GetDescription(&Config{}, nil)
	return help
}

func (c *Config) validate() error {
	switch c.Proxy.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("config: unsupported proxy scheme %q", c.Proxy.Scheme)
	}
	if c.Instagram.MaxPosts < 0 {
		return fmt.Errorf("config: max posts must not be negative")
	}
	return nil
}

// ProxyURL is the proxy endpoint without credentials, or "" when no proxy
// host is configured.
func (c *Config) ProxyURL() string {
	if c.Proxy.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme: c.Proxy.Scheme,
		Host:   net.JoinHostPort(c.Proxy.Host, strconv.Itoa(c.Proxy.Port)),
	}
	return u.String()
}
