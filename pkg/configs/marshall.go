package configs

import (
	"fmt"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/shopspring/decimal"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// TrySeal verifies conf and returns a read-only version of it.
//
// It panics when misconfiguration is found.
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// ConfigMarshall is the mutable form of Config, as written in yaml.
type ConfigMarshall struct {
	Server             *ServerConfigMarshall      `yaml:"server"`
	Database           string                     `yaml:"database"`
	Schema             string                     `yaml:"schema,omitempty"`
	SecretKey          string                     `yaml:"secretKey,omitempty"`
	Fees               *FeesConfigMarshall        `yaml:"fees,omitempty"`
	DefaultMinPurchase string                     `yaml:"defaultMinPurchase,omitempty"`
	Cache              *CacheConfigMarshall       `yaml:"cache,omitempty"`
	Leaderboard        *LeaderboardConfigMarshall `yaml:"leaderboard,omitempty"`
	Email              *EmailConfigMarshall       `yaml:"email,omitempty"`
	Storage            *StorageConfigMarshall     `yaml:"storage,omitempty"`
	Geocoder           *GeocoderConfigMarshall    `yaml:"geocoder,omitempty"`
	Tracing            *TracingConfigMarshall     `yaml:"tracing,omitempty"`
}

var _ Marshalled[*Config] = &ConfigMarshall{}

func (c *ConfigMarshall) trySeal(path string) *Config {
	minPurchase := decimal.NewFromInt(1)
	if c.DefaultMinPurchase != "" {
		minPurchase = parseDecimal(c.DefaultMinPurchase, path+".defaultMinPurchase")
	}
	return &Config{
		port:               nonnil(c.Server, path+".server").trySeal(path + ".server"),
		database:           required(c.Database, path+".database"),
		schema:             c.Schema,
		secretKey:          required(c.SecretKey, path+".secretKey"),
		fees:               orEmpty(c.Fees).trySeal(path + ".fees"),
		defaultMinPurchase: minPurchase,
		cache:              orEmpty(c.Cache).trySeal(path + ".cache"),
		leaderboard:        orEmpty(c.Leaderboard).trySeal(path + ".leaderboard"),
		email:              orEmpty(c.Email).trySeal(path + ".email"),
		storage:            orEmpty(c.Storage).trySeal(path + ".storage"),
		geocoder:           orEmpty(c.Geocoder).trySeal(path + ".geocoder"),
		tracing:            orEmpty(c.Tracing).trySeal(path + ".tracing"),
	}
}

type ServerConfigMarshall struct {
	Port int32 `yaml:"port"`
}

func (s *ServerConfigMarshall) trySeal(path string) int32 {
	return required(s.Port, path+".port")
}

// FeesConfigMarshall holds rates as decimal strings, like "0.029".
type FeesConfigMarshall struct {
	Platform  string `yaml:"platform,omitempty"`
	Processor string `yaml:"processor,omitempty"`
	Flat      string `yaml:"flat,omitempty"`
}

func (f *FeesConfigMarshall) trySeal(path string) domain.FeeSchedule {
	fees := domain.DefaultFeeSchedule()
	if f.Platform != "" {
		fees.PlatformRate = parseDecimal(f.Platform, path+".platform")
	}
	if f.Processor != "" {
		fees.ProcessorRate = parseDecimal(f.Processor, path+".processor")
	}
	if f.Flat != "" {
		fees.ProcessorFlat = parseDecimal(f.Flat, path+".flat")
	}
	return fees
}

type CacheConfigMarshall struct {
	Backend string               `yaml:"backend,omitempty"`
	Redis   *RedisConfigMarshall `yaml:"redis,omitempty"`
}

func (c *CacheConfigMarshall) trySeal(path string) *CacheConfig {
	switch b := CacheBackend(c.Backend); b {
	case "", CacheMemory:
		return &CacheConfig{backend: CacheMemory}
	case CacheRedis:
		return &CacheConfig{
			backend: CacheRedis,
			redis:   nonnil(c.Redis, path+".redis").trySeal(path + ".redis"),
		}
	default:
		panic(fmt.Sprintf("%s.backend should be one of memory|redis, but %s", path, b))
	}
}

type RedisConfigMarshall struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

func (r *RedisConfigMarshall) trySeal(path string) *RedisConfig {
	return &RedisConfig{
		addr:     required(r.Addr, path+".addr"),
		password: r.Password,
		db:       r.DB,
	}
}

type LeaderboardConfigMarshall struct {
	Size         int    `yaml:"size,omitempty"`
	WarmInterval string `yaml:"warmInterval,omitempty"`
}

func (l *LeaderboardConfigMarshall) trySeal(path string) *LeaderboardConfig {
	size := l.Size
	if size == 0 {
		size = domain.DefaultLeaderboardSize
	}
	if size < 0 {
		panic(path + ".size should be positive")
	}
	interval := 24 * time.Hour
	if l.WarmInterval != "" {
		interval = parseDuration(l.WarmInterval, path+".warmInterval")
	}
	return &LeaderboardConfig{size: size, warmInterval: interval}
}

type EmailConfigMarshall struct {
	Workers int    `yaml:"workers,omitempty"`
	Hooks   string `yaml:"hooks,omitempty"`
}

func (e *EmailConfigMarshall) trySeal(path string) *EmailConfig {
	workers := e.Workers
	if workers == 0 {
		workers = 4
	}
	if workers < 0 {
		panic(path + ".workers should be positive")
	}
	return &EmailConfig{workers: workers, hooks: e.Hooks}
}

type StorageConfigMarshall struct {
	Bucket          string `yaml:"bucket,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	AccessKeyId     string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
	SignedURLTTL    string `yaml:"signedUrlTTL,omitempty"`
}

func (s *StorageConfigMarshall) trySeal(path string) *StorageConfig {
	ttl := time.Hour
	if s.SignedURLTTL != "" {
		ttl = parseDuration(s.SignedURLTTL, path+".signedUrlTTL")
	}
	region := s.Region
	if region == "" {
		region = "us-east-1"
	}
	return &StorageConfig{
		bucket:          s.Bucket,
		region:          region,
		endpoint:        s.Endpoint,
		accessKeyId:     s.AccessKeyId,
		secretAccessKey: s.SecretAccessKey,
		signedURLTTL:    ttl,
	}
}

type GeocoderConfigMarshall struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	UserAgent string `yaml:"userAgent,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
}

func (g *GeocoderConfigMarshall) trySeal(path string) *GeocoderConfig {
	timeout := 10 * time.Second
	if g.Timeout != "" {
		timeout = parseDuration(g.Timeout, path+".timeout")
	}
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = "https://nominatim.openstreetmap.org"
	}
	ua := g.UserAgent
	if ua == "" {
		ua = "perdiem"
	}
	return &GeocoderConfig{endpoint: endpoint, userAgent: ua, timeout: timeout}
}

type TracingConfigMarshall struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Service  string `yaml:"service,omitempty"`
}

func (t *TracingConfigMarshall) trySeal(string) *TracingConfig {
	service := t.Service
	if service == "" {
		service = "perdiemd"
	}
	return &TracingConfig{endpoint: t.Endpoint, service: service}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

// orEmpty makes optional sections sealable.
func orEmpty[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}

func parseDecimal(s string, path string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	return d
}

func parseDuration(s string, path string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	return d
}
