package notify

import (
	"crypto/md5"
	"encoding/hex"
	"net/mail"
	"net/url"
	"strings"

	"github.com/investperdiem/perdiem/pkg/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	TemplateInvestSuccess = "invest_success"
	TemplateVerifyEmail   = "email_verification"
	TemplateArtistUpdate  = "artist_update"
	TemplateWelcome       = "welcome"
)

// NoReplyAddress sends mails on behalf of artists.
const NoReplyAddress = "noreply@investperdiem.com"

// Mail is a request to send a templated email.
type Mail struct {
	Template string `json:"template"`
	To       string `json:"to"`
	Subject  string `json:"subject"`

	// sender. Empty means the default of the mail service.
	From string `json:"from,omitempty"`

	// values referred from the template.
	Context map[string]string `json:"context"`
}

// MailingListMember is a change of a member of the newsletter mailing list.
type MailingListMember struct {
	// md5 of the lowercased email.
	SubscriberHash string `json:"subscriber_hash"`
	EmailAddress   string `json:"email_address"`

	// "subscribed" or "unsubscribed".
	Status string `json:"status"`
}

func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

func mailingListMember(email string, subscribed bool) MailingListMember {
	status := "unsubscribed"
	if subscribed {
		status = "subscribed"
	}
	return MailingListMember{
		SubscriberHash: SubscriberHash(email),
		EmailAddress:   email,
		Status:         status,
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

func nameOf(id domain.Identity) string {
	if id.FullName != "" {
		return id.FullName
	}
	return id.Username
}

// investSuccess builds the mail thanking for an investment.
func investSuccess(r domain.Recipient, ev domain.InvestmentRecorded, host string, unsubscribe string) Mail {
	amount, _ := ev.Investment.Charge.Amount.Float64()
	name := nameOf(r.Identity)
	return Mail{
		Template: TemplateInvestSuccess,
		To:       r.Email,
		Subject:  "Thank you for investing!",
		Context: map[string]string{
			"name":        name,
			"num_shares":  printer.Sprintf("%d", ev.Investment.NumShares),
			"campaign_id": printer.Sprintf("%d", ev.Campaign.Id),
			"amount":      printer.Sprint(currency.Symbol(currency.USD.Amount(amount))),
			"host":        host,
			"unsubscribe": host + unsubscribe,
		},
	}
}

func verifyEmail(v domain.VerifiedEmail, host string) Mail {
	return Mail{
		Template: TemplateVerifyEmail,
		To:       v.Email,
		Subject:  "Verify your email",
		Context: map[string]string{
			"host":   host,
			"verify": host + VerifyPath + url.PathEscape(v.Code),
		},
	}
}

// artistUpdate builds the mail delivering an update to an investor of the artist.
func artistUpdate(r domain.Recipient, ev domain.UpdatePublished, host string, unsubscribe string) Mail {
	from := mail.Address{Name: ev.Artist.Name, Address: NoReplyAddress}
	return Mail{
		Template: TemplateArtistUpdate,
		To:       r.Email,
		From:     from.String(),
		Subject:  ev.Artist.Name + ": " + ev.Update.Title,
		Context: map[string]string{
			"name":        nameOf(r.Identity),
			"artist":      ev.Artist.Name,
			"artist_url":  host + "/artist/" + url.PathEscape(ev.Artist.Slug) + "/",
			"title":       ev.Update.Title,
			"text":        ev.Update.Text,
			"host":        host,
			"unsubscribe": host + unsubscribe,
		},
	}
}

// welcome builds the mail for a user just registered. It carries a link to verify
// the email while the email is not verified.
func welcome(r domain.Recipient, v domain.VerifiedEmail, host string, unsubscribe string) Mail {
	ctx := map[string]string{
		"name":        nameOf(r.Identity),
		"host":        host,
		"unsubscribe": host + unsubscribe,
	}
	if !v.Verified() {
		ctx["verify"] = host + VerifyPath + url.PathEscape(v.Code)
	}
	return Mail{
		Template: TemplateWelcome,
		To:       v.Email,
		Subject:  "Welcome to PerDiem!",
		Context:  ctx,
	}
}
