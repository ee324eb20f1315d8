package errors

import (
	"errors"
	"fmt"
)

// requested entity is not found.
var ErrMissing = errors.New("missing")

// the campaign does not accept investments now.
var ErrCampaignClosed = errors.New("campaign is closed")

// requested shares exceed shares remaining in the campaign.
var ErrSharesExceedAvailable = errors.New("shares exceed available")

// number of shares is less than 1.
var ErrInvalidShares = fmt.Errorf("%w: number of shares should be 1 or more", ErrInvalidArgument)

// breakdown rows do not sum up to the artist percentage of the project.
var ErrBreakdownMismatch = errors.New("breakdown does not match artist percentage")

// a breakdown percentage is out of [0, 100].
var ErrBreakdownOutOfRange = errors.New("breakdown percentage out of range")

// the project has no campaigns, so revenue can not be split.
var ErrNoCampaignDefined = errors.New("no campaign defined")

// wrapping timeouts or failures of external collaborators (payment gateway, geocoder).
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

var ErrInvalidArgument = errors.New("invalid argument")

// revenue amount is not positive, or does not fit in dollars and cents below 10,000,000.
var ErrInvalidAmount = fmt.Errorf("%w: amount should be positive and less than 10,000,000 with cents at most", ErrInvalidArgument)

// campaign amount is not a multiple of value per share.
var ErrIndivisibleAmount = fmt.Errorf("%w: amount should be a multiple of value per share", ErrInvalidArgument)

// campaign attributes are inconsistent.
var ErrInvalidCampaign = fmt.Errorf("%w: invalid campaign", ErrInvalidArgument)

// the token is broken, expired, or signed with another key.
var ErrInvalidToken = errors.New("invalid token")

// the entity conflicts with one already existing.
var ErrConflict = errors.New("conflict")

// the user is not allowed to do the operation.
var ErrForbidden = errors.New("forbidden")
