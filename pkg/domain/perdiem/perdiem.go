// Package perdiem assembles services of the campaign economics engine on a database.
package perdiem

import (
	"context"
	"net/http"

	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/configs"
	"github.com/investperdiem/perdiem/pkg/domain/artist"
	"github.com/investperdiem/perdiem/pkg/domain/campaign"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	dbInterface "github.com/investperdiem/perdiem/pkg/domain/perdiem/db"
	"github.com/investperdiem/perdiem/pkg/domain/perdiem/db/postgres"
	"github.com/investperdiem/perdiem/pkg/domain/project"
	"github.com/investperdiem/perdiem/pkg/domain/schema"
	"github.com/investperdiem/perdiem/pkg/domain/subscription"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/payment"
	"github.com/investperdiem/perdiem/pkg/storage/s3"
)

type PerDiem interface {
	Config() *configs.Config

	Campaign() campaign.Interface
	Project() project.Interface
	Investor() investor.Interface
	Artist() artist.Interface
	Subscription() subscription.Interface
	Schema() schema.Interface

	// Bus is where committed changes are published.
	Bus() events.Bus

	Close() error
}

type perdiem struct {
	config *configs.Config
	db     dbInterface.Database
	bus    events.Bus

	campaign     campaign.Interface
	project      project.Interface
	investor     investor.Interface
	artist       artist.Interface
	subscription subscription.Interface
	schema       schema.Interface
}

// Default connects to the database in config.
func Default(
	ctx context.Context,
	config *configs.Config,
	store *cache.Store,
	bus events.Bus,
	options ...Option,
) (PerDiem, error) {
	opt := &_options{gateway: payment.Unavailable()}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}
	return New(config, pg, store, bus, options...), nil
}

// New builds services on the database.
//
// The cache of investors is subscribed to bus, as "cache".
func New(
	config *configs.Config,
	database dbInterface.Database,
	store *cache.Store,
	bus events.Bus,
	options ...Option,
) PerDiem {
	opt := &_options{gateway: payment.Unavailable()}
	for _, o := range options {
		o(opt)
	}

	investorOptions := []investor.Option{
		investor.WithLeaderboardSize(config.Leaderboard().Size()),
	}
	if opt.avatars != nil {
		investorOptions = append(investorOptions, investor.WithAvatarBucket(opt.avatars))
	}
	if opt.client != nil {
		investorOptions = append(investorOptions, investor.WithHTTPClient(opt.client))
	}

	inv := investor.New(database.Investor(), store, investorOptions...)
	bus.Subscribe("cache", inv.Invalidate)

	return &perdiem{
		config: config,
		db:     database,
		bus:    bus,

		campaign:     campaign.New(database.Campaign(), opt.gateway, bus, config.Fees()),
		project:      project.New(database.Project(), bus),
		investor:     inv,
		artist:       artist.New(database.Artist(), database.Project(), bus),
		subscription: subscription.New(database.Subscription(), bus, []byte(config.SecretKey())),
		schema:       schema.New(database.Schema()),
	}
}

type Option func(*_options)

type _options struct {
	pg      []postgres.Option
	gateway payment.Gateway
	avatars s3.Bucket
	client  *http.Client
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

// WithGateway sets the payment gateway. Without this, checkouts fail as upstream unavailable.
func WithGateway(g payment.Gateway) Option {
	return func(o *_options) {
		o.gateway = g
	}
}

func WithAvatarBucket(b s3.Bucket) Option {
	return func(o *_options) {
		o.avatars = b
	}
}

// WithHTTPClient sets the client talking to identity providers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *_options) {
		o.client = c
	}
}

func (p *perdiem) Config() *configs.Config {
	return p.config
}

func (p *perdiem) Campaign() campaign.Interface {
	return p.campaign
}

func (p *perdiem) Project() project.Interface {
	return p.project
}

func (p *perdiem) Investor() investor.Interface {
	return p.investor
}

func (p *perdiem) Artist() artist.Interface {
	return p.artist
}

func (p *perdiem) Subscription() subscription.Interface {
	return p.subscription
}

func (p *perdiem) Schema() schema.Interface {
	return p.schema
}

func (p *perdiem) Bus() events.Bus {
	return p.bus
}

func (p *perdiem) Close() error {
	return p.db.Close()
}
