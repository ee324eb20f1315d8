package investor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/domain/investor/db"
	"github.com/investperdiem/perdiem/pkg/storage/s3"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = tracing.Tracer("pkg/domain/investor")

// GoogleDefaultAvatarURL is the picture Google gives to users without their own.
const GoogleDefaultAvatarURL = "https://lh3.googleusercontent.com/-XdUIqdMkCWA/AAAAAAAAAAI/AAAAAAAAAAA/4252rscbv5M/photo.jpg"

// ProviderAvatar is an avatar reported by an identity provider on login.
type ProviderAvatar struct {
	Provider domain.AvatarProvider
	URL      string

	// the provider reports the picture is its placeholder.
	Default bool
}

type Interface interface {
	Database() db.InvestorInterface

	// ProfileContext returns the profile projection of the investor, from the cache if possible.
	ProfileContext(ctx context.Context, investor domain.Identity) (domain.ProfileContext, error)

	// Leaderboard returns the leaderboard, from the cache if possible.
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)

	// WarmLeaderboard recomputes the leaderboard and caches it.
	WarmLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)

	SetInvestAnonymously(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error)

	// Register creates a user with a profile.
	//
	// ErrInvalidArgument when r is malformed. ErrConflict when the username is taken.
	Register(ctx context.Context, r domain.Registration) (domain.Identity, error)

	// SaveAvatar keeps the avatar from the identity provider.
	//
	// Placeholders of providers are skipped, and then saved is false.
	// Google avatars are saved as URLs (in a larger size); Facebook avatars are
	// copied into the avatar bucket.
	SaveAvatar(ctx context.Context, userId int64, avatar ProviderAvatar) (saved bool, err error)

	// Invalidate drops projections changed by ev. Subscribe it to the event bus.
	Invalidate(ctx context.Context, ev domain.Event) error
}

type impl struct {
	db              db.InvestorInterface
	cache           *cache.Store
	leaderboardSize int
	avatars         s3.Bucket
	client          *http.Client
}

type Option func(*impl)

func WithLeaderboardSize(n int) Option {
	return func(i *impl) {
		i.leaderboardSize = n
	}
}

// WithAvatarBucket sets the bucket which avatars copied from providers are put in.
func WithAvatarBucket(b s3.Bucket) Option {
	return func(i *impl) {
		i.avatars = b
	}
}

// WithHTTPClient sets the client downloading avatars from providers.
func WithHTTPClient(c *http.Client) Option {
	return func(i *impl) {
		i.client = c
	}
}

func New(database db.InvestorInterface, store *cache.Store, options ...Option) Interface {
	i := &impl{
		db:              database,
		cache:           store,
		leaderboardSize: domain.DefaultLeaderboardSize,
		client:          http.DefaultClient,
	}
	for _, o := range options {
		o(i)
	}
	return i
}

func (i *impl) Database() db.InvestorInterface {
	return i.db
}

func (i *impl) ProfileContext(ctx context.Context, investor domain.Identity) (domain.ProfileContext, error) {
	ctx, span := tracer.Start(ctx, "investor.ProfileContext")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", investor.UserId))

	return cache.GetOrSet(
		ctx, i.cache, cache.ProfileContextKey(investor.ProfileId),
		func(ctx context.Context) (domain.ProfileContext, error) {
			hs, err := i.db.Holdings(ctx, investor.UserId)
			if err != nil {
				return domain.ProfileContext{}, err
			}
			return domain.ComputeProfile(hs), nil
		},
	)
}

func (i *impl) computeLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	all, err := i.db.AllHoldings(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ComputeLeaderboard(all, i.leaderboardSize), nil
}

func (i *impl) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "investor.Leaderboard")
	defer span.End()
	return cache.GetOrSet(ctx, i.cache, cache.LeaderboardKey, i.computeLeaderboard)
}

func (i *impl) WarmLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "investor.WarmLeaderboard")
	defer span.End()
	return cache.Set(ctx, i.cache, cache.LeaderboardKey, i.computeLeaderboard)
}

func (i *impl) SetInvestAnonymously(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error) {
	id, err := i.db.SetInvestAnonymously(ctx, userId, anonymous)
	if err != nil {
		return domain.Identity{}, err
	}
	i.cache.Invalidate(ctx, cache.LeaderboardKey)
	return id, nil
}

func (i *impl) Register(ctx context.Context, r domain.Registration) (domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "investor.Register")
	defer span.End()

	if err := r.Validate(); err != nil {
		return domain.Identity{}, err
	}
	return i.db.Register(ctx, r.Username, r.Email, r.FullName)
}

func (i *impl) SaveAvatar(ctx context.Context, userId int64, pa ProviderAvatar) (bool, error) {
	if pa.Default || pa.URL == "" {
		return false, nil
	}

	var avatar domain.Avatar
	switch pa.Provider {
	case domain.AvatarGoogle:
		if pa.URL == GoogleDefaultAvatarURL {
			return false, nil
		}
		avatar = domain.Avatar{
			Provider: domain.AvatarGoogle,
			URL:      strings.Replace(pa.URL, "?sz=50", "?sz=150", 1),
		}
	case domain.AvatarFacebook:
		key, err := i.copyAvatar(ctx, userId, pa.URL)
		if err != nil {
			return false, err
		}
		avatar = domain.Avatar{Provider: domain.AvatarFacebook, ObjectKey: key}
	default:
		return false, nil
	}

	if _, err := i.db.SaveAvatar(ctx, userId, avatar); err != nil {
		return false, err
	}
	i.cache.Invalidate(ctx, cache.LeaderboardKey)
	return true, nil
}

// copyAvatar downloads the avatar at url into the avatar bucket, and returns its key.
func (i *impl) copyAvatar(ctx context.Context, userId int64, url string) (string, error) {
	if i.avatars == nil {
		return "", errors.New("no bucket for avatars")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domerr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: avatar responds %s", domerr.ErrUpstreamUnavailable, resp.Status)
	}

	name := path.Base(req.URL.Path)
	if name == "/" || name == "." {
		name = "avatar"
	}
	key := fmt.Sprintf("avatars/%d/%s", userId, name)
	if err := i.avatars.Put(ctx, key, resp.Body, resp.Header.Get("Content-Type")); err != nil {
		return "", err
	}
	return key, nil
}

func (i *impl) Invalidate(ctx context.Context, ev domain.Event) error {
	switch ev := ev.(type) {
	case domain.InvestmentRecorded:
		i.cache.Invalidate(ctx, investorKeys(ev.Investor)...)
	case domain.InvestmentRefunded:
		i.cache.Invalidate(ctx, investorKeys(ev.Investor)...)
	case domain.RevenueReported:
		keys := []string{cache.LeaderboardKey}
		for _, pid := range ev.InvestorProfileIds {
			keys = append(keys, cache.ProfileContextKey(pid))
		}
		i.cache.Invalidate(ctx, keys...)
	}
	return nil
}

// investorKeys are cache keys depending on investments of the investor.
func investorKeys(investor domain.Identity) []string {
	keys := []string{cache.LeaderboardKey}
	if investor.ProfileId != 0 {
		keys = append(keys, cache.ProfileContextKey(investor.ProfileId))
	}
	return keys
}
