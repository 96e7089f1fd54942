package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var knownFlags = []string{"-d", "-r", "-a", "-i", "-l", "-w", "-netlink"}

// parseFlags overlays cfg with command-line flags.
//
//	-d string   data directory
//	-r string   remote store kind: grpc, surreal, s3, memory
//	-a string   address and port of the document server (grpc kind)
//	-i int      online check interval in seconds
//	-l string   log level
//	-w string   live feed listen address, empty disables it
//	-netlink    use kernel route events instead of probing
//
// args is filtered down to these flags first, so flags meant for other
// components are ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Remote.Kind, "r", cfg.Remote.Kind, "remote store kind")
	fs.StringVar(&cfg.Remote.GRPC.Addr, "a", cfg.Remote.GRPC.Addr, "address and port to access server")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LiveFeedAddr, "w", cfg.LiveFeedAddr, "live feed listen address")
	fs.BoolVar(&cfg.UseNetlink, "netlink", cfg.UseNetlink, "use netlink route events")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
