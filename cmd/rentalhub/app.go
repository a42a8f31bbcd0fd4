// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wneessen/rentalhub/internal/api"
	"github.com/wneessen/rentalhub/internal/config"
	"github.com/wneessen/rentalhub/internal/http"
	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/session"
	"github.com/wneessen/rentalhub/internal/template"
)

var ErrNotLoggedIn = errors.New("you are not logged in, run \"rentalhub login\" first")

// app holds everything a command needs. It is built once per invocation.
type app struct {
	config    *config.Config
	logger    *logger.Logger
	client    *api.Client
	session   *session.Session
	templates *template.Templates
}

func newApp(ctx context.Context, confPath string, logOutput io.Writer) (*app, error) {
	log := logger.NewLogger(slog.LevelError, logOutput)

	conf, err := loadConfig(confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return nil, err
	}
	log = logger.NewLogger(conf.LogLevel, logOutput)

	tpls, err := template.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// The session needs the auth service and the client needs the session as token source
	client := api.New(http.New(log), log, conf.API.BaseURL, nil, conf.API.Timeout)
	sess := session.New(session.NewFileStore(conf.Session.File), client.Auth, log)
	client.SetTokenSource(sess)
	if err = sess.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	log.Debug("rentalhub initialized", slog.String("version", version), slog.String("commit", commit),
		slog.String("date", date), slog.String("api", conf.API.BaseURL))

	return &app{
		config:    conf,
		logger:    log,
		client:    client,
		session:   sess,
		templates: tpls,
	}, nil
}

// requireLogin returns the logged in user or ErrNotLoggedIn.
func (a *app) requireLogin() (api.User, error) {
	user, ok := a.session.User()
	if !ok || !a.session.IsAuthenticated() {
		return api.User{}, ErrNotLoggedIn
	}
	return user, nil
}

// loadConfig reads the config file given on the command line, the config file in the default
// location or, if neither exists, the defaults and the environment.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "rentalhub", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
