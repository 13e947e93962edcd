package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func storeGet(c *cli.Context) error {
	// Args
	if len(c.Args()) != 1 {
		return errors.New("store get requires one argument-- a key")
	}
	key := c.Args()[0]

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	value, ok, err := gate.Store().Get(context.TODO(), key)
	if err != nil {
		return errors.Wrapf(err, "error reading key %q", key)
	}
	if !ok {
		return errors.Errorf("key %q is not set", key)
	}
	fmt.Println(value)

	return nil
}

func storeSet(c *cli.Context) error {
	// Args
	if len(c.Args()) != 2 {
		return errors.New("store set requires two arguments-- a key and a value")
	}
	key, value := c.Args()[0], c.Args()[1]

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	if err := gate.Store().Set(context.TODO(), key, value); err != nil {
		return errors.Wrapf(err, "error writing key %q", key)
	}

	return nil
}

func storeRemove(c *cli.Context) error {
	// Args
	if len(c.Args()) != 1 {
		return errors.New("store rm requires one argument-- a key")
	}
	key := c.Args()[0]

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	if err := gate.Store().Remove(context.TODO(), key); err != nil {
		return errors.Wrapf(err, "error removing key %q", key)
	}

	return nil
}

func storeKeys(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("store keys requires no arguments")
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

	keys, err := gate.Store().Keys(context.TODO())
	if err != nil {
		return errors.Wrap(err, "error listing keys")
	}
	sort.Strings(keys)

	switch strings.ToLower(output) {
	case "table":
		if len(keys) == 0 {
			fmt.Println("No keys found.")
			return nil
		}
		table := uitable.New()
		table.AddRow("KEY")
		for _, k := range keys {
			table.AddRow(k)
		}
		fmt.Println(table)

	case "json":
		prettyJSON, err := json.MarshalIndent(keys, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output from keys operation")
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}

func storeClear(c *cli.Context) error {
	// Args
	if len(c.Args()) != 0 {
		return errors.New("store clear requires no arguments")
	}

	gate, err := getGate(c)
	if err != nil {
		return err
	}
	defer gate.Close()

	if err := gate.Store().Clear(context.TODO()); err != nil {
		return errors.Wrap(err, "error clearing storage")
	}

	return nil
}
