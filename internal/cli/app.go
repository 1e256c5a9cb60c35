// Package cli is the terminal presentation layer. It renders controller
// state and forwards user intents; all session, upload, and history state
// lives in the services package.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/config"
	"github.com/amelnik/enhancer/internal/logging"
	"github.com/amelnik/enhancer/internal/services"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	client  api.Client
	session *services.SessionManager
	uploads *services.UploadController
	history *services.HistoryStore
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	client, err := api.NewRESTClient(cfg.ServerURL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  cfg,
		log:     log,
		client:  client,
		session: services.NewSessionManager(client, log),
		uploads: services.NewUploadController(client, log),
		history: services.NewHistoryStore(client, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run performs the startup probe and initial history fetch concurrently
// (neither waits for the other; a 401 on the history fetch is how the store
// learns it lacks authorization), then hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.session.Probe(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.history.Refresh(ctx); err != nil {
			a.log.Debug(ctx, "initial history fetch failed", "error", err)
		}
	}()
	wg.Wait()

	fmt.Fprintln(a.out, "Welcome to the Image Enhancer CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	s := ""
	if a.session.IsAuthenticated() {
		s = a.session.Username()
	}
	if name := a.uploads.FileName(); name != "" {
		if s != "" {
			s += " "
		}
		s += name + ":" + string(a.uploads.State())
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
