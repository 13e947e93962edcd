package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the token structure or its claims payload
	// cannot be decoded.
	ErrMalformed = errors.New("malformed session token")
	// ErrMissingExpiry is returned by [Claims.Valid] when the token carries no exp claim.
	ErrMissingExpiry = errors.New("session token has no expiry")
	// ErrExpired is returned by [Claims.Valid] when exp is not after the supplied time.
	ErrExpired = errors.New("session token expired")
)

const (
	claimExpiresAt  = "exp"
	claimIssuedAt   = "iat"
	claimSubject    = "sub"
	claimCustomerID = "clienteId"
)

// segmentParser is only used for its base64url segment decoding.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims holds the decoded payload of a session token.
//
// Only the fields the gate and its consumers read are lifted out; every other
// claim stays available through [Claims.Value].
type Claims struct {
	ExpiresAt  *jwt.NumericDate
	IssuedAt   *jwt.NumericDate
	Subject    string
	CustomerID string

	raw map[string]json.RawMessage
}

// Decode splits raw into its three segments and decodes the middle one.
//
// Decode does not check expiry; use [Claims.Valid] for that. Any structural,
// base64 or JSON problem is reported as an error wrapping [ErrMalformed].
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: claims segment: %v", ErrMalformed, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: claims payload: %v", ErrMalformed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: claims payload is not an object", ErrMalformed)
	}

	claims := &Claims{raw: fields}

	if claims.ExpiresAt, err = numericDate(fields, claimExpiresAt); err != nil {
		return nil, err
	}
	if claims.IssuedAt, err = numericDate(fields, claimIssuedAt); err != nil {
		return nil, err
	}
	claims.Subject = looseString(fields[claimSubject])
	claims.CustomerID = looseString(fields[claimCustomerID])

	return claims, nil
}

// Valid reports whether the claims describe a token that is still usable at now.
//
// A zero or absent exp yields [ErrMissingExpiry]; exp at or before now yields
// [ErrExpired].
func (c *Claims) Valid(now time.Time) error {
	if c == nil || c.ExpiresAt == nil || c.ExpiresAt.Unix() == 0 {
		return ErrMissingExpiry
	}
	if !c.ExpiresAt.Time.After(now) {
		return ErrExpired
	}
	return nil
}

// SubjectID returns the customer identifier views use to fetch profile data,
// falling back to the registered sub claim.
func (c *Claims) SubjectID() string {
	if c == nil {
		return ""
	}
	if c.CustomerID != "" {
		return c.CustomerID
	}
	return c.Subject
}

// Value returns the raw JSON of an arbitrary claim.
func (c *Claims) Value(name string) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.raw[name]
	return v, ok
}

func numericDate(fields map[string]json.RawMessage, name string) (*jwt.NumericDate, error) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var date jwt.NumericDate
	if err := json.Unmarshal(raw, &date); err != nil {
		return nil, fmt.Errorf("%w: %s claim: %v", ErrMalformed, name, err)
	}
	return &date, nil
}

// looseString accepts both JSON strings and numbers; backends disagree on
// whether customer identifiers are numeric.
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}

	return ""
}
