// Package configs loads the server configuration from a yaml file,
// overlaid by environment variables prefixed with PERDIEM_.
package configs

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Env is the environment overlay. Non-empty values win over the file.
type Env struct {
	Port            int32  `env:"PORT"`
	DatabaseURL     string `env:"DATABASE_URL"`
	SecretKey       string `env:"SECRET_KEY"`
	CacheBackend    string `env:"CACHE_BACKEND"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	StorageBucket   string `env:"STORAGE_BUCKET"`
	AccessKeyId     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	OtelEndpoint    string `env:"OTEL_ENDPOINT"`
}

const EnvPrefix = "PERDIEM_"

// ParseEnv reads PERDIEM_* variables from the process environment.
func ParseEnv() (Env, error) {
	return ParseEnvFrom(nil)
}

// ParseEnvFrom reads PERDIEM_* variables from environ.
// nil environ means the process environment.
func ParseEnvFrom(environ map[string]string) (Env, error) {
	var e Env
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

func (e Env) apply(c *ConfigMarshall) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	if e.Port != 0 {
		if c.Server == nil {
			c.Server = &ServerConfigMarshall{}
		}
		c.Server.Port = e.Port
	}
	set(&c.Database, e.DatabaseURL)
	set(&c.SecretKey, e.SecretKey)

	if e.CacheBackend != "" || e.RedisAddr != "" || e.RedisPassword != "" {
		c.Cache = orEmpty(c.Cache)
		set(&c.Cache.Backend, e.CacheBackend)
		if e.RedisAddr != "" || e.RedisPassword != "" {
			c.Cache.Redis = orEmpty(c.Cache.Redis)
			set(&c.Cache.Redis.Addr, e.RedisAddr)
			set(&c.Cache.Redis.Password, e.RedisPassword)
		}
	}

	if e.StorageBucket != "" || e.AccessKeyId != "" || e.SecretAccessKey != "" {
		c.Storage = orEmpty(c.Storage)
		set(&c.Storage.Bucket, e.StorageBucket)
		set(&c.Storage.AccessKeyId, e.AccessKeyId)
		set(&c.Storage.SecretAccessKey, e.SecretAccessKey)
	}

	if e.OtelEndpoint != "" {
		c.Tracing = orEmpty(c.Tracing)
		c.Tracing.Endpoint = e.OtelEndpoint
	}
}

// LoadConfig reads the config file at path, and overlays the process environment.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, err := ParseEnv()
	if err != nil {
		return nil, err
	}
	return Unmarshal(content, e)
}

// Unmarshal parses yaml, overlays e and seals the result.
//
// Misconfigurations are reported as error.
func Unmarshal(content []byte, e Env) (out *Config, err error) {
	m := new(ConfigMarshall)
	if err := yaml.Unmarshal(content, m); err != nil {
		return nil, err
	}
	e.apply(m)

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("misconfiguration: %v", r)
		}
	}()
	return TrySeal(m), nil
}
