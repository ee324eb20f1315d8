package db

import (
	kartist "github.com/investperdiem/perdiem/pkg/domain/artist/db"
	kcampaign "github.com/investperdiem/perdiem/pkg/domain/campaign/db"
	kinvestor "github.com/investperdiem/perdiem/pkg/domain/investor/db"
	kproject "github.com/investperdiem/perdiem/pkg/domain/project/db"
	kschema "github.com/investperdiem/perdiem/pkg/domain/schema/db"
	ksubscription "github.com/investperdiem/perdiem/pkg/domain/subscription/db"
)

type Database interface {
	Campaign() kcampaign.CampaignInterface
	Project() kproject.ProjectInterface
	Investor() kinvestor.InvestorInterface
	Artist() kartist.ArtistInterface
	Subscription() ksubscription.SubscriptionInterface
	Schema() kschema.SchemaInterface
	Close() error
}
