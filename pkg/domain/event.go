package domain

type EventKind string

const (
	KindInvestmentRecorded  EventKind = "investment-recorded"
	KindRevenueReported     EventKind = "revenue-reported"
	KindSubscriptionChanged EventKind = "subscription-changed"
	KindInvestmentRefunded  EventKind = "investment-refunded"
	KindUpdatePublished     EventKind = "update-published"
	KindUserRegistered      EventKind = "user-registered"
)

// Event is a notification of a committed change.
//
// Variants are InvestmentRecorded, InvestmentRefunded, RevenueReported,
// SubscriptionChanged, UpdatePublished and UserRegistered.
type Event interface {
	Kind() EventKind
}

type InvestmentRecorded struct {
	Investor   Identity
	Campaign   Campaign
	Investment Investment
}

func (InvestmentRecorded) Kind() EventKind { return KindInvestmentRecorded }

type RevenueReported struct {
	ProjectId int64
	Report    RevenueReport

	// profiles of users holding investments in the project, when the report is made.
	InvestorProfileIds []int64
}

func (RevenueReported) Kind() EventKind { return KindRevenueReported }

type SubscriptionChanged struct {
	UserId       int64
	Subscription SubscriptionKind
	Subscribed   bool
}

func (SubscriptionChanged) Kind() EventKind { return KindSubscriptionChanged }

// InvestmentRefunded tells that a charge is refunded and its investment stops counting.
type InvestmentRefunded struct {
	Investor Identity
	ChargeId string
}

func (InvestmentRefunded) Kind() EventKind { return KindInvestmentRefunded }

type UpdatePublished struct {
	Artist Artist
	Update ArtistUpdate
}

func (UpdatePublished) Kind() EventKind { return KindUpdatePublished }

// UserRegistered tells that a user signs up with the email.
type UserRegistered struct {
	User  Identity
	Email VerifiedEmail
}

func (UserRegistered) Kind() EventKind { return KindUserRegistered }
