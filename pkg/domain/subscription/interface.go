package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/domain/subscription/db"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = tracing.Tracer("pkg/domain/subscription")

type Interface interface {
	Database() db.SubscriptionInterface

	// Subscribe subscribes the user to kind, and publishes SubscriptionChanged if changed.
	Subscribe(ctx context.Context, userId int64, kind domain.SubscriptionKind) error

	// Unsubscribe unsubscribes the user from kind, and publishes SubscriptionChanged for each change.
	//
	// Unsubscribing from ALL unsubscribes from every kind.
	Unsubscribe(ctx context.Context, userId int64, kind domain.SubscriptionKind) error

	// UnsubscribeEmail unsubscribes the user having the email.
	// Unknown emails are ignored.
	UnsubscribeEmail(ctx context.Context, email string, kind domain.SubscriptionKind) error

	// UnsubscribeToken issues a token for an unsubscribe link.
	UnsubscribeToken(userId int64, kind domain.SubscriptionKind) (string, error)

	// UnsubscribeByToken unsubscribes as the token says.
	//
	// ErrInvalidToken when the token is malformed, forged or expired.
	UnsubscribeByToken(ctx context.Context, token string) (int64, domain.SubscriptionKind, error)

	// VerificationCode returns the code to verify the current email of the user.
	VerificationCode(ctx context.Context, userId int64) (domain.VerifiedEmail, error)

	// Verify marks the email having the code as verified.
	Verify(ctx context.Context, code string) (domain.VerifiedEmail, error)

	// Welcome sets up subscriptions of a user just registered, then publishes UserRegistered.
	//
	// The user is unsubscribed from NEWS unless news is true, and SubscriptionChanged of NEWS is
	// published when news is true or the subscription changes.
	// A verification code is issued for the email of the user, if any.
	Welcome(ctx context.Context, user domain.Identity, news bool) error
}

type impl struct {
	db       db.SubscriptionInterface
	bus      events.Bus
	key      []byte
	tokenTTL time.Duration
	clock    func() time.Time
}

type Option func(*impl)

func WithClock(clock func() time.Time) Option {
	return func(i *impl) {
		i.clock = clock
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(i *impl) {
		i.tokenTTL = ttl
	}
}

// New returns subscription service. key signs tokens in unsubscribe links.
func New(database db.SubscriptionInterface, bus events.Bus, key []byte, options ...Option) Interface {
	i := &impl{
		db: database, bus: bus, key: key,
		tokenTTL: DefaultTokenTTL, clock: time.Now,
	}
	for _, o := range options {
		o(i)
	}
	return i
}

func (i *impl) Database() db.SubscriptionInterface {
	return i.db
}

func (i *impl) set(ctx context.Context, userId int64, kinds []domain.SubscriptionKind, subscribed bool) error {
	changed, err := i.db.SetSubscribed(ctx, userId, kinds, subscribed)
	if err != nil {
		return err
	}
	for _, k := range changed {
		i.bus.Publish(ctx, domain.SubscriptionChanged{
			UserId: userId, Subscription: k, Subscribed: subscribed,
		})
	}
	return nil
}

func (i *impl) Subscribe(ctx context.Context, userId int64, kind domain.SubscriptionKind) error {
	ctx, span := tracer.Start(ctx, "subscription.Subscribe")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userId), attribute.String("subscription", string(kind)))

	return i.set(ctx, userId, []domain.SubscriptionKind{kind}, true)
}

func (i *impl) Unsubscribe(ctx context.Context, userId int64, kind domain.SubscriptionKind) error {
	ctx, span := tracer.Start(ctx, "subscription.Unsubscribe")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userId), attribute.String("subscription", string(kind)))

	kinds := []domain.SubscriptionKind{kind}
	if kind == domain.SubscriptionAll {
		kinds = domain.SubscriptionKinds
	}
	return i.set(ctx, userId, kinds, false)
}

func (i *impl) UnsubscribeEmail(ctx context.Context, email string, kind domain.SubscriptionKind) error {
	userId, err := i.db.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domerr.ErrMissing) {
			return nil
		}
		return err
	}
	return i.Unsubscribe(ctx, userId, kind)
}

func (i *impl) UnsubscribeToken(userId int64, kind domain.SubscriptionKind) (string, error) {
	return signToken(i.key, userId, kind, i.clock(), i.tokenTTL)
}

func (i *impl) UnsubscribeByToken(ctx context.Context, token string) (int64, domain.SubscriptionKind, error) {
	userId, kind, err := verifyToken(i.key, token, i.clock())
	if err != nil {
		return 0, "", err
	}
	if err := i.Unsubscribe(ctx, userId, kind); err != nil {
		return 0, "", err
	}
	return userId, kind, nil
}

func (i *impl) VerificationCode(ctx context.Context, userId int64) (domain.VerifiedEmail, error) {
	return i.db.CurrentEmail(ctx, userId)
}

func (i *impl) Verify(ctx context.Context, code string) (domain.VerifiedEmail, error) {
	return i.db.Verify(ctx, code)
}

func (i *impl) Welcome(ctx context.Context, user domain.Identity, news bool) error {
	ctx, span := tracer.Start(ctx, "subscription.Welcome")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", user.UserId), attribute.Bool("news", news))

	changed, err := i.db.SetSubscribed(ctx, user.UserId, []domain.SubscriptionKind{domain.SubscriptionNews}, news)
	if err != nil {
		return err
	}
	// users are subscribed from the start. Opting in is told anyway, for the mailing list.
	if news || len(changed) != 0 {
		i.bus.Publish(ctx, domain.SubscriptionChanged{
			UserId: user.UserId, Subscription: domain.SubscriptionNews, Subscribed: news,
		})
	}

	var email domain.VerifiedEmail
	if user.Email != "" {
		e, err := i.db.CurrentEmail(ctx, user.UserId)
		if err != nil {
			return err
		}
		email = e
	}
	i.bus.Publish(ctx, domain.UserRegistered{User: user, Email: email})
	return nil
}
