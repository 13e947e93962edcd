package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type statusReport struct {
	Phase         string     `json:"phase"`
	Authenticated bool       `json:"authenticated"`
	Storage       string     `json:"storage"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	BootError     string     `json:"bootError,omitempty"`
}

func status(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("status requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	ctx := context.TODO()
	state, bootErr := gate.Boot(ctx)
	report := newStatusReport(state, storageKind(gate), bootErr)
	if state.Authenticated {
		if claims, err := gate.Claims(ctx); err == nil && claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			report.ExpiresAt = &exp
		}
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("PHASE", "STORAGE", "EXPIRES")
		var expires string
		if report.ExpiresAt != nil {
			expires = report.ExpiresAt.Format(time.RFC3339)
		}
		table.AddRow(report.Phase, report.Storage, expires)
		fmt.Println(table)

	case "json":
		prettyJSON, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output from status operation")
		}
		fmt.Println(string(prettyJSON))
	}

	if bootErr != nil {
		return errors.Wrap(bootErr, "error reading stored session")
	}
	return nil
}

func newStatusReport(state goSession.State, storage string, bootErr error) statusReport {
	r := statusReport{
		Phase:         state.Phase().String(),
		Authenticated: state.Authenticated,
		Storage:       storage,
	}
	if bootErr != nil {
		r.BootError = bootErr.Error()
	}
	return r
}
