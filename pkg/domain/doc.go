package domain

// domain package contains the Domain Models and pure functions of the PerDiem campaign economics.
//
// `domain/perdiem` package exposes root object for the PerDiem application.
// Entrypoints of applications should instantiate the PerDiem object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/campaign.go` contains the `Campaign` entity and its ledger arithmetic.
// Functions in this package never touch the database nor the cache: they derive values from
// the data passed to them.
//
// `domain/ENTITY` directory contains the "physical" representation of the domain entities in the RDB,
// and the write operations guarding them.
//
// `domain/ENTITY/interface.go` exposes the client interface to handle the domain entity.
//
// # Entities
//
// Core entities in the domain are:
//
// - `campaign`: a time-bounded share sale for a Project.
// Fans buy Shares of a campaign. Each Investment is admitted under the row lock of the campaign,
// so that shares sold never exceed shares issued.
//
// - `project`: a revenue-producing endeavour of an Artist. It groups campaigns,
// accumulates RevenueReports and splits the artist side of revenue into breakdowns.
//
// - `investor`: a user who holds investments. Its profile (invested / earned / ROI) and the
// leaderboard of earners are projections, cached and invalidated by events.
//
// - `artist`: shared dimension of projects. Artists are ranked and filtered by location.
//
// And others:
//
// - `subscription`: email subscriptions and verified emails of users.
//
// - `schema`: versions of the database schema.
//
// - `event`: notifications published by write operations after they commit.
