package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	repo   services.NoteRepository
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

func NewApp(repo services.NoteRepository, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{repo: repo, reader: bufio.NewReader(in), out: out, log: log}
}

// Run prints a greeting and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "GophNotes (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) mode() Mode {
	if a.repo.IsConnected() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) hasUser() bool {
	_, ok := a.repo.SelectedUser()
	return ok
}

// status renders the prompt prefix, e.g. "(u-1 online)".
func (a *App) status() string {
	s := string(a.mode())
	if id, ok := a.repo.SelectedUser(); ok {
		s = id + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}
