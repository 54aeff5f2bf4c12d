package address

import (
	"fmt"
	"net/mail"
	"strings"
)

// Address is a parsed e-mail address with an optional display name.
type Address struct {
	Email string
	Name  string // empty when the source had no display name
}

// Parse splits s into address and display name.
// Unparseable input is returned trimmed as the address with no name.
func Parse(s string) Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}
	}

	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return Address{Email: s}
	}

	return Address{
		Email: parsed.Address,
		Name:  strings.TrimSpace(parsed.Name),
	}
}

// ParseList parses every entry independently, preserving order.
func ParseList(list []string) []Address {
	if len(list) == 0 {
		return nil
	}
	result := make([]Address, len(list))
	for i, s := range list {
		result[i] = Parse(s)
	}
	return result
}

// Equal reports whether both the address and the display name match.
func (a Address) Equal(other Address) bool {
	return a.Email == other.Email && a.Name == other.Name
}

// String formats the address in RFC 5322 form.
// Returns "Name <email>" if a name is present, otherwise just the email.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Format joins a name and email the way most provider APIs accept them.
func Format(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
