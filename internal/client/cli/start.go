package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/connectivity"
	"github.com/dmitrijs2005/gophnotes/internal/client/identity"
	"github.com/dmitrijs2005/gophnotes/internal/client/livefeed"
	"github.com/dmitrijs2005/gophnotes/internal/client/localstore"
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/filex"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// Start assembles the client from cfg and runs the REPL on in/out until the
// user exits. Everything it opens is closed before it returns.
func Start(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	dataDir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to prepare data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if _, err := filex.EnsureDir(filepath.Dir(cfg.LogPath())); err != nil {
		return fmt.Errorf("failed to prepare log dir: %w", err)
	}
	log, logCloser := logging.NewFileLogger(logging.FileOptions{
		Path:       cfg.LogPath(),
		Level:      cfg.LogLevel,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	})
	defer logCloser.Close()
	log.Info(ctx, "client starting", "data_dir", cfg.DataDir, "remote", cfg.Remote.Kind)

	store, err := localstore.Open(ctx, cfg.DBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	cfg.Remote.Log = log.With("component", "remote")
	rs, err := remote.Open(ctx, cfg.Remote)
	if err != nil {
		if !errors.Is(err, remote.ErrUnavailable) {
			return err
		}
		log.Warn(ctx, "remote store unreachable at startup, dialing on demand", "kind", cfg.Remote.Kind, "error", err)
		rs = remote.NewDeferredStore(cfg.Remote)
	}
	defer rs.Close()

	monitor := connectivity.NewMonitor(newHook(ctx, cfg, rs, log), log)

	repo, err := services.NewNoteRepository(ctx, services.Deps{
		Store:    store,
		Remote:   rs,
		Monitor:  monitor,
		Identity: identity.NewJWTProvider([]byte(cfg.IdentitySecret), cfg.IdentityIssuer),
		Log:      log,
	})
	if err != nil {
		return err
	}
	defer repo.Cleanup()

	if cfg.LiveFeedAddr != "" {
		feed := livefeed.NewServer(cfg.LiveFeedAddr, repo, log)
		if err := feed.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := feed.Stop(context.Background()); err != nil {
				log.Warn(ctx, "live feed shutdown failed", "error", err)
			}
		}()
		fmt.Fprintf(out, "Live feed on ws://%s/ws\n", feed.Addr())
	}

	NewApp(repo, in, out, log).Run(ctx)
	return nil
}

// newHook prefers netlink route events when asked for and supported, and
// falls back to periodic probing.
func newHook(ctx context.Context, cfg *config.Config, p connectivity.Pinger, log logging.Logger) connectivity.PlatformHook {
	if cfg.UseNetlink {
		h, err := connectivity.NewNetlinkHook(p, cfg.ProbeTimeout)
		if err == nil {
			return h
		}
		log.Warn(ctx, "netlink unavailable, falling back to probing", "error", err)
	}
	return connectivity.NewProbeHook(p, cfg.OnlineCheckInterval, probeTimeout(cfg))
}

func probeTimeout(cfg *config.Config) time.Duration {
	if cfg.ProbeTimeout > cfg.OnlineCheckInterval {
		return cfg.OnlineCheckInterval
	}
	return cfg.ProbeTimeout
}
