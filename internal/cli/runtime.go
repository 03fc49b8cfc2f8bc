package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/logger"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
)

// runtime is what every command needs to talk to the backend on behalf of
// the persisted session.
type runtime struct {
	cfg      *config.Config
	log      logr.Logger
	clients  *client.ClientSet
	store    *session.FileStore
	sessions *session.Manager
}

func newRuntime(cfg *config.Config, fs afero.Fs) (*runtime, error) {
	log := logr.Discard()
	if cfg.Verbose {
		log = logger.Logr()
	}

	path, err := cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	store := session.NewFileStore(fs, path)
	clients := cfg.Client(log)
	sessions := session.NewManager(store, clients.Auth, clients.User, session.WithLogger(log.WithName("session")))
	if _, err := sessions.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session from %s: %v", path, err)
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		clients:  clients,
		store:    store,
		sessions: sessions,
	}, nil
}

// startSpinner shows a spinner on w while a request is in flight. It only
// draws when w is a terminal; the returned func stops it.
func startSpinner(w io.Writer, suffix string) func() {
	f, ok := w.(*os.File)
	if !ok {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f), spinner.WithSuffix(" "+suffix))
	s.Start()
	return s.Stop
}
