package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goSession "github.com/MrEthical07/goSession"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type keyReport struct {
	Key   string `json:"key"`
	Error string `json:"error,omitempty"`
}

func logout(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("logout requires no arguments")
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
	// A read failure here still leaves logout worth attempting.
	_, _ = gate.Boot(ctx)

	result := gate.Logout(ctx)
	keys := keyReports(result)

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("KEY", "RESULT")
		for _, k := range keys {
			outcome := "removed"
			if k.Error != "" {
				outcome = k.Error
			}
			table.AddRow(k.Key, outcome)
		}
		fmt.Println(table)

	case "json":
		prettyJSON, err := json.MarshalIndent(keys, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output from logout operation")
		}
		fmt.Println(string(prettyJSON))
	}

	if failed := result.Failed(); len(failed) > 0 && !result.Cleared {
		return errors.Errorf("%d session keys could not be removed", len(failed))
	}
	return nil
}

func keyReports(result goSession.LogoutResult) []keyReport {
	out := make([]keyReport, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		r := keyReport{Key: o.Key}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		out = append(out, r)
	}
	return out
}
