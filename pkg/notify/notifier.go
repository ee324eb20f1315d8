// Package notify delivers emails and mailing list changes for events on the bus.
//
// Deliveries run on a worker pool, out of the request publishing the event.
// Failures are logged, never returned to the publisher.
package notify

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/investperdiem/perdiem/pkg/configs/hook"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/panjf2000/ants/v2"
)

// UnsubscribePath is the page unsubscribing by the token in query.
const UnsubscribePath = "/unsubscribe"

// VerifyPath is the page verifying an email by the code following it.
const VerifyPath = "/verify/"

// Recipients finds users to send emails.
type Recipients interface {
	Recipient(ctx context.Context, userId int64) (domain.Recipient, error)

	// ArtistInvestors returns users holding settled investments on the artist.
	ArtistInvestors(ctx context.Context, artistId int64) ([]domain.Recipient, error)
}

// Tokens issues tokens of unsubscribe links.
type Tokens interface {
	UnsubscribeToken(userId int64, kind domain.SubscriptionKind) (string, error)
}

type Notifier struct {
	recipients Recipients
	tokens     Tokens
	host       string
	mail       Web[Mail]
	list       Web[MailingListMember]

	pool   *ants.Pool
	wg     sync.WaitGroup
	logger *log.Logger
}

type Option func(*Notifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.mail.Client = c
		n.list.Client = c
	}
}

// New starts a notifier with workers goroutines at most.
func New(
	recipients Recipients,
	tokens Tokens,
	conf hook.Config,
	workers int,
	logger *log.Logger,
	options ...Option,
) (*Notifier, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	n := &Notifier{
		recipients: recipients,
		tokens:     tokens,
		host:       conf.Host,
		mail:       Web[Mail]{URLs: conf.Mail.URLs},
		list:       Web[MailingListMember]{URLs: conf.MailingList.URLs},
		pool:       pool,
		logger:     logger,
	}
	for _, o := range options {
		o(n)
	}
	return n, nil
}

// Handle schedules deliveries for ev. Subscribe it to the event bus.
//
// It returns an error only when the delivery cannot be scheduled.
func (n *Notifier) Handle(ctx context.Context, ev domain.Event) error {
	var task func(context.Context) error
	switch ev := ev.(type) {
	case domain.InvestmentRecorded:
		if len(n.mail.URLs) == 0 {
			return nil
		}
		task = func(ctx context.Context) error { return n.investSuccess(ctx, ev) }
	case domain.UpdatePublished:
		if len(n.mail.URLs) == 0 {
			return nil
		}
		task = func(ctx context.Context) error { return n.artistUpdate(ctx, ev) }
	case domain.UserRegistered:
		if len(n.mail.URLs) == 0 || ev.Email.Email == "" {
			return nil
		}
		task = func(ctx context.Context) error { return n.welcome(ctx, ev) }
	case domain.SubscriptionChanged:
		if ev.Subscription != domain.SubscriptionNews || len(n.list.URLs) == 0 {
			return nil
		}
		task = func(ctx context.Context) error { return n.mailingList(ctx, ev) }
	default:
		return nil
	}

	return n.submit(ctx, string(ev.Kind()), task)
}

// SendVerification schedules the mail with the link verifying the email.
func (n *Notifier) SendVerification(ctx context.Context, v domain.VerifiedEmail) error {
	if len(n.mail.URLs) == 0 {
		return nil
	}
	return n.submit(ctx, TemplateVerifyEmail, func(ctx context.Context) error {
		return n.mail.Send(ctx, verifyEmail(v, n.host))
	})
}

func (n *Notifier) submit(ctx context.Context, label string, task func(context.Context) error) error {
	// deliveries outlive the request scheduling them.
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	err := n.pool.Submit(func() {
		defer n.wg.Done()
		if err := task(ctx); err != nil {
			n.logger.Printf("notify: %s: %+v", label, err)
		}
	})
	if err != nil {
		n.wg.Done()
		return err
	}
	return nil
}

// unsubscribeLink returns the path of the page unsubscribing the user from kind.
func (n *Notifier) unsubscribeLink(userId int64, kind domain.SubscriptionKind) (string, error) {
	token, err := n.tokens.UnsubscribeToken(userId, kind)
	if err != nil {
		return "", err
	}
	return UnsubscribePath + "?" + url.Values{"token": []string{token}}.Encode(), nil
}

func (n *Notifier) investSuccess(ctx context.Context, ev domain.InvestmentRecorded) error {
	r, err := n.recipients.Recipient(ctx, ev.Investor.UserId)
	if err != nil {
		return err
	}
	if !r.Reachable(domain.SubscriptionAll) {
		return nil
	}
	link, err := n.unsubscribeLink(r.UserId, domain.SubscriptionAll)
	if err != nil {
		return err
	}
	return n.mail.Send(ctx, investSuccess(r, ev, n.host, link))
}

// artistUpdate mails the update to each investor of the artist subscribing ARTUP.
// A failure for an investor does not stop mails to the others.
func (n *Notifier) artistUpdate(ctx context.Context, ev domain.UpdatePublished) error {
	rs, err := n.recipients.ArtistInvestors(ctx, ev.Artist.Id)
	if err != nil {
		return err
	}

	var errs []error
	for _, r := range rs {
		if !r.Reachable(domain.SubscriptionArtistUpdate) {
			continue
		}
		link, err := n.unsubscribeLink(r.UserId, domain.SubscriptionArtistUpdate)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := n.mail.Send(ctx, artistUpdate(r, ev, n.host, link)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// welcome mails a user just registered, even before the email is verified.
func (n *Notifier) welcome(ctx context.Context, ev domain.UserRegistered) error {
	r, err := n.recipients.Recipient(ctx, ev.User.UserId)
	if err != nil {
		return err
	}
	if !r.Subscriptions.Subscribed(domain.SubscriptionAll) {
		return nil
	}
	link, err := n.unsubscribeLink(r.UserId, domain.SubscriptionAll)
	if err != nil {
		return err
	}
	return n.mail.Send(ctx, welcome(r, ev.Email, n.host, link))
}

func (n *Notifier) mailingList(ctx context.Context, ev domain.SubscriptionChanged) error {
	r, err := n.recipients.Recipient(ctx, ev.UserId)
	if err != nil {
		return err
	}
	if r.Email == "" {
		return nil
	}
	return n.list.Send(ctx, mailingListMember(r.Email, ev.Subscribed))
}

// Close waits scheduled deliveries, then stops workers.
func (n *Notifier) Close() {
	n.wg.Wait()
	n.pool.Release()
}
