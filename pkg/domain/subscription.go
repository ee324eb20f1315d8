package domain

import (
	"fmt"
	"time"
)

type SubscriptionKind string

const (
	// every email. Unsubscribing this unsubscribes others.
	SubscriptionAll SubscriptionKind = "ALL"

	// newsletter, synchronized with the mailing list.
	SubscriptionNews SubscriptionKind = "NEWS"

	// updates from artists the user invested in.
	SubscriptionArtistUpdate SubscriptionKind = "ARTUP"
)

var SubscriptionKinds = []SubscriptionKind{
	SubscriptionAll, SubscriptionNews, SubscriptionArtistUpdate,
}

func ParseSubscriptionKind(s string) (SubscriptionKind, error) {
	for _, k := range SubscriptionKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown subscription: %s (should be one of -- ALL|NEWS|ARTUP)", s)
}

// Subscriptions is subscription state of a user. Kinds not in the map are subscribed.
type Subscriptions map[SubscriptionKind]bool

func (s Subscriptions) Subscribed(kind SubscriptionKind) bool {
	if v, ok := s[kind]; ok && !v {
		return false
	}
	return true
}

// VerifiedEmail is a pair of user and email, with the code sent to the email to verify it.
type VerifiedEmail struct {
	UserId     int64      `json:"user_id"`
	Email      string     `json:"email"`
	Code       string     `json:"code"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

func (v VerifiedEmail) Verified() bool {
	return v.VerifiedAt != nil
}

// Recipient is a user who emails are sent to.
type Recipient struct {
	Identity
	EmailVerified bool
	Subscriptions Subscriptions
}

// Reachable reports whether an email of kind can be sent to the recipient.
func (r Recipient) Reachable(kind SubscriptionKind) bool {
	if r.Email == "" || !r.EmailVerified {
		return false
	}
	return r.Subscriptions.Subscribed(SubscriptionAll) && r.Subscriptions.Subscribed(kind)
}
