// Package address splits free-form e-mail address strings into their
// address and display-name parts.
//
// Parsing is lenient: anything that is not a valid RFC 5322 address is kept
// as the bare address with no display name, leaving rejection to the
// delivery provider.
//
//	a := address.Parse(`"Jane Doe" <jane@example.com>`)
//	a.Email // "jane@example.com"
//	a.Name  // "Jane Doe"
//
// A display name is reported only when it is present and non-empty, so
// callers can rely on Name == "" meaning "no display name".
package address
