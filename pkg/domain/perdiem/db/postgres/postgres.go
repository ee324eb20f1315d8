package postgres

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	kartist "github.com/investperdiem/perdiem/pkg/domain/artist/db"
	kpgartist "github.com/investperdiem/perdiem/pkg/domain/artist/db/postgres"
	kcampaign "github.com/investperdiem/perdiem/pkg/domain/campaign/db"
	kpgcampaign "github.com/investperdiem/perdiem/pkg/domain/campaign/db/postgres"
	kinvestor "github.com/investperdiem/perdiem/pkg/domain/investor/db"
	kpginvestor "github.com/investperdiem/perdiem/pkg/domain/investor/db/postgres"
	dbInterface "github.com/investperdiem/perdiem/pkg/domain/perdiem/db"
	kproject "github.com/investperdiem/perdiem/pkg/domain/project/db"
	kpgproject "github.com/investperdiem/perdiem/pkg/domain/project/db/postgres"
	kschema "github.com/investperdiem/perdiem/pkg/domain/schema/db"
	kpgschema "github.com/investperdiem/perdiem/pkg/domain/schema/db/postgres"
	ksubscription "github.com/investperdiem/perdiem/pkg/domain/subscription/db"
	kpgsubscription "github.com/investperdiem/perdiem/pkg/domain/subscription/db/postgres"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/jackc/pgx/v4/pgxpool"
)

type perdiemDBPostgres struct {
	pool         kpool.Pool
	campaign     kcampaign.CampaignInterface
	project      kproject.ProjectInterface
	investor     kinvestor.InvestorInterface
	artist       kartist.ArtistInterface
	subscription ksubscription.SubscriptionInterface
	schema       kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
	MaxConns         int32
}

func DefaultConfig() Config {
	return Config{}
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// WithMaxConns limits connections in the pool. 0 leaves the limit of pgxpool.
func WithMaxConns(n int32) Option {
	return func(c *Config) *Config {
		c.MaxConns = n
		return c
	}
}

// New connects to the database at url.
func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.Database, error) {
	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	pconf, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if 0 < c.MaxConns {
		pconf.MaxConns = c.MaxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, pconf)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	return Wrap(kpool.Wrap(pool), c), nil
}

// Wrap builds repositories on the pool.
func Wrap(p kpool.Pool, c Config) dbInterface.Database {
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &perdiemDBPostgres{
		pool:         p,
		campaign:     kpgcampaign.New(p),
		project:      kpgproject.New(p),
		investor:     kpginvestor.New(p),
		artist:       kpgartist.New(p),
		subscription: kpgsubscription.New(p),
		schema:       schema,
	}
}

func (k *perdiemDBPostgres) Campaign() kcampaign.CampaignInterface {
	return k.campaign
}

func (k *perdiemDBPostgres) Project() kproject.ProjectInterface {
	return k.project
}

func (k *perdiemDBPostgres) Investor() kinvestor.InvestorInterface {
	return k.investor
}

func (k *perdiemDBPostgres) Artist() kartist.ArtistInterface {
	return k.artist
}

func (k *perdiemDBPostgres) Subscription() ksubscription.SubscriptionInterface {
	return k.subscription
}

func (k *perdiemDBPostgres) Schema() kschema.SchemaInterface {
	return k.schema
}

func (k *perdiemDBPostgres) Close() error {
	k.pool.Close()
	return nil
}
