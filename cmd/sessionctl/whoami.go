package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/backend"
	"github.com/MrEthical07/goSession/token"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type identity struct {
	Subject    string          `json:"subject,omitempty"`
	CustomerID string          `json:"customerId,omitempty"`
	IssuedAt   *time.Time      `json:"issuedAt,omitempty"`
	ExpiresAt  *time.Time      `json:"expiresAt,omitempty"`
	Expired    bool            `json:"expired"`
	Profile    json.RawMessage `json:"profile,omitempty"`
}

func whoami(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("whoami requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)
	withProfile := c.Bool(flagProfile)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	ctx := context.TODO()
	claims, err := gate.Claims(ctx)
	if err != nil {
		return errors.Wrap(err, "error reading session token")
	}
	id := newIdentity(claims, time.Now())

	if id.CustomerID == "" {
		if v, ok, err := gate.Store().Get(ctx, customerIDKey); err == nil && ok {
			id.CustomerID = v
		}
	}

	if withProfile {
		cfg := gate.Config()
		if cfg.Backend.BaseURL == "" {
			return errors.New("fetching the profile requires a configured backend")
		}
		raw, _, err := gate.Token(ctx)
		if err != nil {
			return errors.Wrap(err, "error reading session token")
		}
		profile, err := backend.NewClientFromConfig(cfg.Backend).Profile(ctx, raw, id.CustomerID)
		if err != nil {
			return errors.Wrap(err, "error fetching customer profile")
		}
		id.Profile = profile
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("SUBJECT", "CUSTOMER", "EXPIRES", "EXPIRED")
		var expires string
		if id.ExpiresAt != nil {
			expires = id.ExpiresAt.Format(time.RFC3339)
		}
		table.AddRow(id.Subject, id.CustomerID, expires, id.Expired)
		fmt.Println(table)
		if len(id.Profile) > 0 {
			fmt.Println()
			fmt.Println(string(id.Profile))
		}

	case "json":
		prettyJSON, err := json.MarshalIndent(id, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output from whoami operation")
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}

func newIdentity(claims *token.Claims, now time.Time) identity {
	id := identity{
		Subject:    claims.Subject,
		CustomerID: claims.CustomerID,
		Expired:    claims.Valid(now) != nil,
	}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		id.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		id.ExpiresAt = &t
	}
	return id
}
