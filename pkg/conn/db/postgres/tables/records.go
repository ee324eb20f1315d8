package tables

import "time"

type UserAccount struct {
	Id       int64
	Username string
	Email    string
	FullName string
	IsStaff  bool
}

type UserAvatar struct {
	Id        int64
	UserId    int64
	Provider  string
	URL       string
	ObjectKey string
}

type UserProfile struct {
	Id                int64
	UserId            int64
	InvestAnonymously bool
	AvatarId          *int64
}

type Artist struct {
	Id   int64
	Name string
	Slug string

	// degrees
	Lat string
	Lon string
}

type Genre struct {
	Id   int64
	Name string
}

type ArtistGenre struct {
	ArtistId int64
	GenreId  int64
}

type Project struct {
	Id       int64
	ArtistId int64
	Reason   string
}

type ArtistAdmin struct {
	Id       int64
	ArtistId int64
	UserId   int64
	Role     string
}

type ArtistUpdate struct {
	Id        int64
	ArtistId  int64
	Title     string
	Text      string
	CreatedAt time.Time
}

type Breakdown struct {
	Id          int64
	ProjectId   int64
	DisplayName string
	Percentage  string
}

type RevenueReport struct {
	Id         int64
	ProjectId  int64
	Amount     string
	ReportedAt time.Time
}

type Campaign struct {
	Id             int64
	ProjectId      int64
	Amount         int64
	ValuePerShare  int64
	StartAt        *time.Time
	EndAt          *time.Time
	FansPercentage int64
	UseOfFunds     string
}

type Expense struct {
	Id          int64
	CampaignId  int64
	Description string
}

type Charge struct {
	Id       string
	UserId   int64
	Amount   string
	Paid     bool
	Refunded bool
}

type Investment struct {
	Id            int64
	ChargeId      string
	CampaignId    int64
	NumShares     int64
	TransactionAt time.Time
}

type EmailSubscription struct {
	UserId       int64
	Subscription string
	Subscribed   bool
}

type VerifiedEmail struct {
	UserId     int64
	Email      string
	Code       string
	VerifiedAt *time.Time
}
