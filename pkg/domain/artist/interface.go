package artist

import (
	"context"
	"fmt"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/artist/db"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	projectdb "github.com/investperdiem/perdiem/pkg/domain/project/db"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"github.com/investperdiem/perdiem/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = tracing.Tracer("pkg/domain/artist")

// Query is a condition of artist listing.
type Query struct {
	Order domain.ArtistOrder

	// Genre, if not empty, lists only artists of the genre.
	Genre string

	// Near, if not nil, lists only artists in Miles from the point.
	Near  *domain.Point
	Miles float64

	// ExcludeFailed hides artists whose every campaign has failed.
	ExcludeFailed bool
}

type Interface interface {
	Database() db.ArtistInterface

	// List returns artists matching the query, in the order of query.
	List(ctx context.Context, query Query) ([]domain.ArtistSummary, error)

	// Investors lists stakes of investors over every project of the artist,
	// in descending order of total investment.
	Investors(ctx context.Context, artistId int64) ([]domain.InvestorStake, error)

	// Access tells what the user can do with updates of the artist.
	//
	// Staff and admins of the artist can submit. ErrMissing when the artist does not exist.
	Access(ctx context.Context, user domain.Identity, artistId int64) (domain.UpdateAccess, error)

	// Updates lists updates of the artist, the newest first.
	//
	// ErrForbidden when the user can not view them.
	Updates(ctx context.Context, user domain.Identity, artistId int64) ([]domain.ArtistUpdate, error)

	// PublishUpdate posts an update of the artist by author, then publishes UpdatePublished.
	//
	// ErrInvalidArgument for an empty title or text, or a title too long.
	// ErrForbidden when author can not submit updates of the artist.
	PublishUpdate(ctx context.Context, author domain.Identity, artistId int64, title string, text string) (domain.ArtistUpdate, error)

	// DeleteUpdate removes the update. ErrForbidden when the user can not submit updates of its artist.
	DeleteUpdate(ctx context.Context, user domain.Identity, updateId int64) error
}

type impl struct {
	db       db.ArtistInterface
	projects projectdb.ProjectInterface
	bus      events.Bus
	clock    func() time.Time
}

type Option func(*impl)

func WithClock(clock func() time.Time) Option {
	return func(i *impl) {
		i.clock = clock
	}
}

func New(database db.ArtistInterface, projects projectdb.ProjectInterface, bus events.Bus, options ...Option) Interface {
	i := &impl{db: database, projects: projects, bus: bus, clock: time.Now}
	for _, o := range options {
		o(i)
	}
	return i
}

func (i *impl) Database() db.ArtistInterface {
	return i.db
}

func (i *impl) List(ctx context.Context, query Query) ([]domain.ArtistSummary, error) {
	ctx, span := tracer.Start(ctx, "artist.List")
	defer span.End()

	filter := db.Filter{Genre: query.Genre}
	if query.Near != nil {
		// coarse box in database, then exact distance here.
		box := domain.BoundingBox(*query.Near, query.Miles)
		filter.Within = &box
	}

	artists, err := i.db.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := i.clock()
	artists = utils.Filter(artists, func(a domain.ArtistSummary) bool {
		if query.Near != nil {
			p := domain.Point{Lat: a.Artist.Lat, Lon: a.Artist.Lon}
			if !domain.WithinRadius(*query.Near, p, query.Miles) {
				return false
			}
		}
		if query.ExcludeFailed && a.AllCampaignsFailed(now) {
			return false
		}
		return true
	})
	span.SetAttributes(attribute.Int("artist.count", len(artists)))

	return domain.SortArtists(artists, query.Order, now), nil
}

func (i *impl) Investors(ctx context.Context, artistId int64) ([]domain.InvestorStake, error) {
	ctx, span := tracer.Start(ctx, "artist.Investors")
	defer span.End()
	span.SetAttributes(attribute.Int64("artist.id", artistId))

	if _, err := i.db.Get(ctx, artistId); err != nil {
		return nil, err
	}
	projects, err := i.projects.ByArtist(ctx, artistId)
	if err != nil {
		return nil, err
	}

	now := i.clock()
	var acc map[int64]*domain.InvestorStake
	for _, p := range projects {
		acc = domain.ProjectInvestors(p, now, acc)
	}
	return domain.SortStakes(acc), nil
}

func (i *impl) Access(ctx context.Context, user domain.Identity, artistId int64) (domain.UpdateAccess, error) {
	ctx, span := tracer.Start(ctx, "artist.Access")
	defer span.End()
	span.SetAttributes(attribute.Int64("artist.id", artistId), attribute.Int64("user.id", user.UserId))

	if _, err := i.db.Get(ctx, artistId); err != nil {
		return domain.UpdateAccess{}, err
	}
	return i.access(ctx, user, artistId)
}

func (i *impl) access(ctx context.Context, user domain.Identity, artistId int64) (domain.UpdateAccess, error) {
	access := domain.UpdateAccess{CanSubmit: user.IsStaff}
	if !access.CanSubmit {
		admin, err := i.db.IsAdmin(ctx, artistId, user.UserId)
		if err != nil {
			return domain.UpdateAccess{}, err
		}
		access.CanSubmit = admin
	}

	investor, err := i.db.IsInvestor(ctx, artistId, user.UserId)
	if err != nil {
		return domain.UpdateAccess{}, err
	}
	access.IsInvestor = investor
	return access, nil
}

func (i *impl) Updates(ctx context.Context, user domain.Identity, artistId int64) ([]domain.ArtistUpdate, error) {
	ctx, span := tracer.Start(ctx, "artist.Updates")
	defer span.End()
	span.SetAttributes(attribute.Int64("artist.id", artistId))

	access, err := i.Access(ctx, user, artistId)
	if err != nil {
		return nil, err
	}
	if !access.CanView() {
		return nil, fmt.Errorf("%w: updates of artist %d are for its investors", domerr.ErrForbidden, artistId)
	}
	return i.db.Updates(ctx, artistId)
}

func (i *impl) PublishUpdate(ctx context.Context, author domain.Identity, artistId int64, title string, text string) (domain.ArtistUpdate, error) {
	ctx, span := tracer.Start(ctx, "artist.PublishUpdate")
	defer span.End()
	span.SetAttributes(attribute.Int64("artist.id", artistId))

	u := domain.ArtistUpdate{ArtistId: artistId, Title: title, Text: text}
	if err := u.Validate(); err != nil {
		return domain.ArtistUpdate{}, err
	}

	summary, err := i.db.Get(ctx, artistId)
	if err != nil {
		return domain.ArtistUpdate{}, err
	}
	access, err := i.access(ctx, author, artistId)
	if err != nil {
		return domain.ArtistUpdate{}, err
	}
	if !access.CanSubmit {
		return domain.ArtistUpdate{}, fmt.Errorf("%w: user %d is not an admin of artist %d", domerr.ErrForbidden, author.UserId, artistId)
	}

	created, err := i.db.CreateUpdate(ctx, u)
	if err != nil {
		return domain.ArtistUpdate{}, err
	}
	i.bus.Publish(ctx, domain.UpdatePublished{Artist: summary.Artist, Update: created})
	return created, nil
}

func (i *impl) DeleteUpdate(ctx context.Context, user domain.Identity, updateId int64) error {
	ctx, span := tracer.Start(ctx, "artist.DeleteUpdate")
	defer span.End()
	span.SetAttributes(attribute.Int64("update.id", updateId))

	u, err := i.db.GetUpdate(ctx, updateId)
	if err != nil {
		return err
	}
	access, err := i.access(ctx, user, u.ArtistId)
	if err != nil {
		return err
	}
	if !access.CanSubmit {
		return fmt.Errorf("%w: user %d is not an admin of artist %d", domerr.ErrForbidden, user.UserId, u.ArtistId)
	}
	return i.db.DeleteUpdate(ctx, updateId)
}
