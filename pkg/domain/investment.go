package domain

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Charge is a payment made on the payment gateway.
//
// Only the result of the payment is recorded.
type Charge struct {
	// identifier of the charge on the gateway
	Id       string          `json:"id"`
	UserId   int64           `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
	Refunded bool            `json:"refunded"`
}

// Settled reports whether the charge counts: paid and not refunded.
func (c Charge) Settled() bool {
	return c.Paid && !c.Refunded
}

type Investment struct {
	Id            int64     `json:"id"`
	CampaignId    int64     `json:"campaign_id"`
	Charge        Charge    `json:"charge"`
	NumShares     int64     `json:"num_shares"`
	TransactionAt time.Time `json:"transaction_at"`

	Investor Identity `json:"investor"`
}

// Counts reports whether the investment is backed by a settled charge.
func (i Investment) Counts() bool {
	return i.Charge.Settled()
}

// Invested returns dollars paid for shares, fees excluded.
func (i Investment) Invested(c Campaign) int64 {
	return i.NumShares * c.ValuePerShare
}

type AvatarProvider string

const (
	AvatarPerDiem  AvatarProvider = "perdiem"
	AvatarGoogle   AvatarProvider = "google-oauth2"
	AvatarFacebook AvatarProvider = "facebook"
)

// Avatar locates the picture of a user.
//
// Google avatars are remote URLs, others are objects in the storage.
// Zero value means "no avatar".
type Avatar struct {
	Provider  AvatarProvider `json:"provider,omitempty"`
	URL       string         `json:"url,omitempty"`
	ObjectKey string         `json:"object_key,omitempty"`
}

const AnonymousAvatarURL = "/static/img/perdiem-anonymous-avatar.png"

// AvatarSigner converts an object key in the storage into a URL.
type AvatarSigner func(objectKey string) string

// Identity is how a user appears on public pages.
type Identity struct {
	UserId    int64  `json:"user_id"`
	ProfileId int64  `json:"profile_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`

	InvestAnonymously bool   `json:"invest_anonymously"`
	Avatar            Avatar `json:"avatar"`

	// operators of the site. They report revenue and act for every artist.
	IsStaff bool `json:"is_staff,omitempty"`
}

func (id Identity) DisplayName() string {
	if id.InvestAnonymously {
		return "Anonymous"
	}
	if id.FullName != "" {
		return id.FullName
	}
	return id.Username
}

// ProfileURL returns the path of the public profile page. Anonymous investors have none.
func (id Identity) ProfileURL() string {
	if id.InvestAnonymously {
		return ""
	}
	return "/profile/" + url.PathEscape(id.Username) + "/"
}

// AvatarURL returns URL of the avatar to be displayed.
//
// sign may be nil; then avatars in the storage fall back to the generated one.
func (id Identity) AvatarURL(sign AvatarSigner) string {
	if id.InvestAnonymously {
		return AnonymousAvatarURL
	}

	switch id.Avatar.Provider {
	case AvatarGoogle:
		if id.Avatar.URL != "" {
			return id.Avatar.URL
		}
	case AvatarFacebook, AvatarPerDiem:
		if sign != nil && id.Avatar.ObjectKey != "" {
			if u := sign(id.Avatar.ObjectKey); u != "" {
				return u
			}
		}
	}
	return "https://ui-avatars.com/api/?name=" + url.PathEscape(id.DisplayName()) + "&size=150"
}
