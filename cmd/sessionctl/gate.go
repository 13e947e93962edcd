package main

import (
	"log/slog"
	"os"
	"path/filepath"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const customerIDKey = "clienteId"

func getGosessionHome() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error finding user home directory")
	}
	return filepath.Join(home, ".gosession"), nil
}

// prefsPath picks the fallback file: the --prefs flag, then the configured
// path, then ~/.gosession/prefs.json.
func prefsPath(flagValue, configured string) (string, error) {
	for _, p := range []string{flagValue, configured} {
		if p == "" {
			continue
		}
		expanded, err := homedir.Expand(p)
		if err != nil {
			return "", errors.Wrapf(err, "error expanding path %s", p)
		}
		return expanded, nil
	}
	home, err := getGosessionHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "prefs.json"), nil
}

func newLogger(level int) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)}))
}

// getGate loads the environment configuration, opens the configured backends
// and builds a gate. The caller owns the returned gate and must close it.
func getGate(c *cli.Context) (*goSession.Gate, error) {
	cfg, err := goSession.LoadConfigFromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "error loading configuration")
	}

	path, err := prefsPath(c.GlobalString(flagPrefs), cfg.Store.FilePath)
	if err != nil {
		return nil, err
	}
	cfg.Store.FilePath = path

	backends, err := goSession.OpenBackends(cfg.Store)
	if err != nil {
		return nil, errors.Wrap(err, "error opening session storage")
	}

	gate, err := goSession.New().
		WithConfig(cfg).
		WithBackends(backends).
		WithLogger(newLogger(c.GlobalInt(flagLogLevel))).
		Build()
	if err != nil {
		_ = backends.Close()
		return nil, errors.Wrap(err, "error building session gate")
	}
	return gate, nil
}

func storageKind(gate *goSession.Gate) string {
	if s, ok := gate.Store().(*store.Store); ok && s.Native() {
		return "native"
	}
	return "fallback"
}
