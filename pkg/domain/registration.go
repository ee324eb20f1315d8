package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"unicode/utf8"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxFullNameLength = 300
)

var usernamePattern = regexp.MustCompile(`^[\pL\pN.@+_-]+$`)

// Registration is what a user signs up with.
type Registration struct {
	Username string `json:"username"`

	// optional.
	Email    string `json:"email"`
	FullName string `json:"full_name"`

	// the user opts in to NEWS.
	SubscribeNews bool `json:"subscribe_news"`
}

// Validate checks the username is given and made of letters, digits and @.+-_,
// and the email, if given, is a bare address.
func (r Registration) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", domerr.ErrInvalidArgument)
	}
	if MaxUsernameLength < utf8.RuneCountInString(r.Username) || !usernamePattern.MatchString(r.Username) {
		return fmt.Errorf(
			"%w: username should be %d characters or less of letters, digits and @.+-_",
			domerr.ErrInvalidArgument, MaxUsernameLength,
		)
	}
	if MaxFullNameLength < utf8.RuneCountInString(r.FullName) {
		return fmt.Errorf("%w: full name is too long", domerr.ErrInvalidArgument)
	}
	if r.Email == "" {
		return nil
	}
	if MaxEmailLength < len(r.Email) {
		return fmt.Errorf("%w: email is too long", domerr.ErrInvalidArgument)
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return fmt.Errorf("%w: malformed email: %s", domerr.ErrInvalidArgument, r.Email)
	}
	return nil
}
