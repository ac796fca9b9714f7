package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/fragments-ui/internal/client/config"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/client/services"
	"github.com/dmitrijs2005/fragments-ui/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single connectivity probe.
const pingTimeout = 3 * time.Second

type App struct {
	config          *config.Config
	authService     services.AuthService
	fragmentService services.FragmentService
	log             logging.Logger

	reader *bufio.Reader
	out    io.Writer
	loc    *time.Location

	user *models.User
	// fragments is the last list rendered; it supplies defaults for update.
	fragments []models.Fragment

	mu   sync.RWMutex
	mode Mode
}

func NewApp(c *config.Config, as services.AuthService, fs services.FragmentService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:          c,
		authService:     as,
		fragmentService: fs,
		log:             log,
		reader:          bufio.NewReader(in),
		out:             out,
		loc:             time.Local,
	}
}

// Run greets the user, resumes a persisted session and serves the REPL
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the fragments CLI (type 'help' for commands)")

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	a.restoreSession(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.user != nil {
		s = a.user.DisplayName() + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher probes the service right away and then every
// interval, switching between ModeOnline and ModeOffline. It returns when
// ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.probe(ctx)
	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// alert shows a failure to the user. Details go to the log only.
func (a *App) alert(msg string) {
	fmt.Fprintln(a.out, "!", msg)
}
