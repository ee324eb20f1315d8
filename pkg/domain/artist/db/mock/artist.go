package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	kdb "github.com/investperdiem/perdiem/pkg/domain/artist/db"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/internal/db/mock"
)

type ArtistInterface struct {
	Impl struct {
		Get    func(ctx context.Context, artistId int64) (domain.ArtistSummary, error)
		List   func(ctx context.Context, filter kdb.Filter) ([]domain.ArtistSummary, error)
		Create func(ctx context.Context, a domain.Artist) (domain.Artist, error)
		Genres func(ctx context.Context) ([]string, error)

		IsAdmin      func(ctx context.Context, artistId int64, userId int64) (bool, error)
		IsInvestor   func(ctx context.Context, artistId int64, userId int64) (bool, error)
		Updates      func(ctx context.Context, artistId int64) ([]domain.ArtistUpdate, error)
		GetUpdate    func(ctx context.Context, updateId int64) (domain.ArtistUpdate, error)
		CreateUpdate func(ctx context.Context, u domain.ArtistUpdate) (domain.ArtistUpdate, error)
		DeleteUpdate func(ctx context.Context, updateId int64) error
	}
	Calls struct {
		Get    dbmock.CallLog[int64]
		List   dbmock.CallLog[kdb.Filter]
		Create dbmock.CallLog[domain.Artist]
		Genres dbmock.CallLog[struct{}]

		IsAdmin      dbmock.CallLog[Membership]
		IsInvestor   dbmock.CallLog[Membership]
		Updates      dbmock.CallLog[int64]
		GetUpdate    dbmock.CallLog[int64]
		CreateUpdate dbmock.CallLog[domain.ArtistUpdate]
		DeleteUpdate dbmock.CallLog[int64]
	}
}

// Membership is a pair of an artist and a user asked about.
type Membership struct {
	ArtistId int64
	UserId   int64
}

var _ kdb.ArtistInterface = &ArtistInterface{}

func NewArtistInterface() *ArtistInterface {
	return &ArtistInterface{}
}

func (m *ArtistInterface) Get(ctx context.Context, artistId int64) (domain.ArtistSummary, error) {
	m.Calls.Get = append(m.Calls.Get, artistId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, artistId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) List(ctx context.Context, filter kdb.Filter) ([]domain.ArtistSummary, error) {
	m.Calls.List = append(m.Calls.List, filter)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, filter)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Create(ctx context.Context, a domain.Artist) (domain.Artist, error) {
	m.Calls.Create = append(m.Calls.Create, a)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, a)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Genres(ctx context.Context) ([]string, error) {
	m.Calls.Genres = append(m.Calls.Genres, struct{}{})
	if m.Impl.Genres != nil {
		return m.Impl.Genres(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) IsAdmin(ctx context.Context, artistId int64, userId int64) (bool, error) {
	m.Calls.IsAdmin = append(m.Calls.IsAdmin, Membership{ArtistId: artistId, UserId: userId})
	if m.Impl.IsAdmin != nil {
		return m.Impl.IsAdmin(ctx, artistId, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) IsInvestor(ctx context.Context, artistId int64, userId int64) (bool, error) {
	m.Calls.IsInvestor = append(m.Calls.IsInvestor, Membership{ArtistId: artistId, UserId: userId})
	if m.Impl.IsInvestor != nil {
		return m.Impl.IsInvestor(ctx, artistId, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Updates(ctx context.Context, artistId int64) ([]domain.ArtistUpdate, error) {
	m.Calls.Updates = append(m.Calls.Updates, artistId)
	if m.Impl.Updates != nil {
		return m.Impl.Updates(ctx, artistId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) GetUpdate(ctx context.Context, updateId int64) (domain.ArtistUpdate, error) {
	m.Calls.GetUpdate = append(m.Calls.GetUpdate, updateId)
	if m.Impl.GetUpdate != nil {
		return m.Impl.GetUpdate(ctx, updateId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) CreateUpdate(ctx context.Context, u domain.ArtistUpdate) (domain.ArtistUpdate, error) {
	m.Calls.CreateUpdate = append(m.Calls.CreateUpdate, u)
	if m.Impl.CreateUpdate != nil {
		return m.Impl.CreateUpdate(ctx, u)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) DeleteUpdate(ctx context.Context, updateId int64) error {
	m.Calls.DeleteUpdate = append(m.Calls.DeleteUpdate, updateId)
	if m.Impl.DeleteUpdate != nil {
		return m.Impl.DeleteUpdate(ctx, updateId)
	}
	panic(errors.New("it should not be called"))
}
