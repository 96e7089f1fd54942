package config

import (
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/dmitrijs2005/gophnotes/internal/configfile"
	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// fileConfig is the on-disk form. Pointers and zero values mean "keep the
// default".
type fileConfig struct {
	DataDir             string          `json:"data_dir" yaml:"data_dir"`
	Remote              *remote.Options `json:"remote" yaml:"remote"`
	OnlineCheckInterval timex.Duration  `json:"online_check_interval" yaml:"online_check_interval"`
	ProbeTimeout        timex.Duration  `json:"probe_timeout" yaml:"probe_timeout"`
	UseNetlink          *bool           `json:"use_netlink" yaml:"use_netlink"`
	LogFile             string          `json:"log_file" yaml:"log_file"`
	LogLevel            string          `json:"log_level" yaml:"log_level"`
	LiveFeedAddr        string          `json:"live_feed_addr" yaml:"live_feed_addr"`
	Identity            struct {
		Secret string `json:"secret" yaml:"secret"`
		Issuer string `json:"issuer" yaml:"issuer"`
	} `json:"identity" yaml:"identity"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	var fc fileConfig
	if err := configfile.Load(path, &fc); err != nil {
		return err
	}

	setString(&cfg.DataDir, fc.DataDir)
	if fc.Remote != nil {
		cfg.Remote = *fc.Remote
	}
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.ProbeTimeout.Duration != 0 {
		cfg.ProbeTimeout = fc.ProbeTimeout.Duration
	}
	if fc.UseNetlink != nil {
		cfg.UseNetlink = *fc.UseNetlink
	}
	setString(&cfg.LogFile, fc.LogFile)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LiveFeedAddr, fc.LiveFeedAddr)
	setString(&cfg.IdentitySecret, fc.Identity.Secret)
	setString(&cfg.IdentityIssuer, fc.Identity.Issuer)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
