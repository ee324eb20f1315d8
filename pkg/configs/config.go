package configs

import (
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/shopspring/decimal"
)

// Config is the sealed, read-only configuration of the server.
//
// Get one with LoadConfig or Unmarshal.
type Config struct {
	port               int32
	database           string
	schema             string
	secretKey          string
	fees               domain.FeeSchedule
	defaultMinPurchase decimal.Decimal
	cache              *CacheConfig
	leaderboard        *LeaderboardConfig
	email              *EmailConfig
	storage            *StorageConfig
	geocoder           *GeocoderConfig
	tracing            *TracingConfig
}

func (c *Config) Port() int32 { return c.port }

// Connection string for the database.
func (c *Config) Database() string { return c.database }

// Path to the schema repository. Empty when the server does not watch it.
func (c *Config) Schema() string { return c.schema }

// Key signing tokens in unsubscribe links.
func (c *Config) SecretKey() string { return c.secretKey }

func (c *Config) Fees() domain.FeeSchedule { return c.fees }

// Minimum purchase in dollars, for the default number of shares offered.
func (c *Config) DefaultMinPurchase() decimal.Decimal { return c.defaultMinPurchase }

func (c *Config) Cache() *CacheConfig { return c.cache }

func (c *Config) Leaderboard() *LeaderboardConfig { return c.leaderboard }

func (c *Config) Email() *EmailConfig { return c.email }

func (c *Config) Storage() *StorageConfig { return c.storage }

func (c *Config) Geocoder() *GeocoderConfig { return c.geocoder }

func (c *Config) Tracing() *TracingConfig { return c.tracing }

type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

type CacheConfig struct {
	backend CacheBackend
	redis   *RedisConfig
}

func (c *CacheConfig) Backend() CacheBackend { return c.backend }

// Redis is nil unless the backend is redis.
func (c *CacheConfig) Redis() *RedisConfig { return c.redis }

type RedisConfig struct {
	addr     string
	password string
	db       int
}

func (r *RedisConfig) Addr() string     { return r.addr }
func (r *RedisConfig) Password() string { return r.password }
func (r *RedisConfig) DB() int          { return r.db }

type LeaderboardConfig struct {
	size         int
	warmInterval time.Duration
}

func (l *LeaderboardConfig) Size() int { return l.size }

// Interval to recompute the cached leaderboard. 0 disables warming.
func (l *LeaderboardConfig) WarmInterval() time.Duration { return l.warmInterval }

type EmailConfig struct {
	workers int
	hooks   string
}

// Number of workers sending emails concurrently.
func (e *EmailConfig) Workers() int { return e.workers }

// Path to the hook config file. Empty means emails are not sent.
func (e *EmailConfig) Hooks() string { return e.hooks }

type StorageConfig struct {
	bucket          string
	region          string
	endpoint        string
	accessKeyId     string
	secretAccessKey string
	signedURLTTL    time.Duration
}

func (s *StorageConfig) Bucket() string   { return s.bucket }
func (s *StorageConfig) Region() string   { return s.region }
func (s *StorageConfig) Endpoint() string { return s.endpoint }

// AccessKeyId and SecretAccessKey are empty when the default credential chain is used.
func (s *StorageConfig) AccessKeyId() string     { return s.accessKeyId }
func (s *StorageConfig) SecretAccessKey() string { return s.secretAccessKey }

func (s *StorageConfig) SignedURLTTL() time.Duration { return s.signedURLTTL }

type GeocoderConfig struct {
	endpoint  string
	userAgent string
	timeout   time.Duration
}

func (g *GeocoderConfig) Endpoint() string       { return g.endpoint }
func (g *GeocoderConfig) UserAgent() string      { return g.userAgent }
func (g *GeocoderConfig) Timeout() time.Duration { return g.timeout }

type TracingConfig struct {
	endpoint string
	service  string
}

// OTLP/HTTP endpoint. Empty disables tracing.
func (t *TracingConfig) Endpoint() string { return t.endpoint }
func (t *TracingConfig) Service() string  { return t.service }
