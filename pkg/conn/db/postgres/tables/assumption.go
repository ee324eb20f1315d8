package tables

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
)

// Declare premise of test.
//
// Records are inserted in the order of fields, so that references are satisfied.
type Operation struct {
	UserAccounts []UserAccount
	UserAvatars  []UserAvatar
	UserProfiles []UserProfile

	Genres       []Genre
	Artists      []Artist
	ArtistGenres []ArtistGenre
	ArtistAdmins []ArtistAdmin
	Updates      []ArtistUpdate
	Projects     []Project
	Breakdowns   []Breakdown
	Reports      []RevenueReport

	Campaigns   []Campaign
	Expenses    []Expense
	Charges     []Charge
	Investments []Investment

	Subscriptions  []EmailSubscription
	VerifiedEmails []VerifiedEmail
}

func (prem *Operation) Apply(ctx context.Context, pool kpool.Pool) error {
	tbls := New(ctx, pool)

	for _, r := range prem.UserAccounts {
		if err := tbls.InsertUserAccount(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.UserAvatars {
		if err := tbls.InsertUserAvatar(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.UserProfiles {
		if err := tbls.InsertUserProfile(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Genres {
		if err := tbls.InsertGenre(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Artists {
		if err := tbls.InsertArtist(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.ArtistGenres {
		if err := tbls.InsertArtistGenre(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.ArtistAdmins {
		if err := tbls.InsertArtistAdmin(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Updates {
		if err := tbls.InsertArtistUpdate(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Projects {
		if err := tbls.InsertProject(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Breakdowns {
		if err := tbls.InsertBreakdown(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Reports {
		if err := tbls.InsertRevenueReport(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Campaigns {
		if err := tbls.InsertCampaign(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Expenses {
		if err := tbls.InsertExpense(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Charges {
		if err := tbls.InsertCharge(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Investments {
		if err := tbls.InsertInvestment(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.Subscriptions {
		if err := tbls.InsertEmailSubscription(&r); err != nil {
			return err
		}
	}
	for _, r := range prem.VerifiedEmails {
		if err := tbls.InsertVerifiedEmail(&r); err != nil {
			return err
		}
	}

	return tbls.ResetSequences()
}
