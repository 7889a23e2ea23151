package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/agricarbon/internal/client"
	"github.com/Veraticus/agricarbon/internal/config"
	"github.com/Veraticus/agricarbon/internal/report"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// loadConfig resolves the configuration after initConfig has run.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the service client from configuration.
func newClient(cfg config.Config) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:    cfg.APIBaseURL,
		CACertFile: cfg.APICACert,
		Timeout:    cfg.APITimeout,
	})
}

// terminalWidth returns the width of w, or the default wrap width when w is
// not a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return report.DefaultWrap
}
