package main

import (
	"context"
	"fmt"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/backend"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func login(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("login requires no arguments")
	}

	// Command-specific flags
	creds := goSession.Credentials{
		Email:        c.String(flagEmail),
		Password:     c.String(flagPassword),
		CaptchaToken: c.String(flagCaptcha),
	}

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	cfg := gate.Config()
	if cfg.Backend.BaseURL == "" {
		return errors.Errorf(
			"no backend is configured; set %sBACKEND_BASE_URL to continue",
			goSession.EnvPrefix,
		)
	}

	ctx := context.TODO()
	if _, err := gate.Boot(ctx); err != nil {
		return errors.Wrap(err, "error reading stored session")
	}

	client := backend.NewClientFromConfig(cfg.Backend)
	if err := gate.SignIn(ctx, client, creds); err != nil {
		return errors.Wrap(err, "error signing in")
	}

	if err := rememberCustomer(ctx, gate); err != nil {
		return err
	}

	fmt.Println("Login was successful.")

	return nil
}

// rememberCustomer copies the customer id claim next to the token so other
// tools can find it without decoding.
func rememberCustomer(ctx context.Context, gate *goSession.Gate) error {
	claims, err := gate.Claims(ctx)
	if err != nil {
		return errors.Wrap(err, "error decoding new session token")
	}
	if claims.CustomerID == "" {
		return nil
	}
	if err := gate.Store().Set(ctx, customerIDKey, claims.CustomerID); err != nil {
		return errors.Wrap(err, "error storing customer id")
	}
	return nil
}
