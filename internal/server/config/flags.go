package config

import "github.com/spf13/pflag"

// BindServeFlags registers the serve flags on fs, defaulting to the current
// values so that flags override the file.
//
//	-a, --addr       gRPC bind address
//	-d, --dsn        PostgreSQL DSN
//	-s, --secret     HMAC secret for tokens
//	    --issuer     token issuer
//	    --log-level  log level
func (c *Config) BindServeFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.EndpointAddrGRPC, "addr", "a", c.EndpointAddrGRPC, "address and port to run server")
	fs.StringVarP(&c.DatabaseDSN, "dsn", "d", c.DatabaseDSN, "database DSN")
	fs.StringVarP(&c.SecretKey, "secret", "s", c.SecretKey, "secret key")
	fs.StringVar(&c.TokenIssuer, "issuer", c.TokenIssuer, "token issuer")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
}

// BindTokenFlags registers the flags of the token command.
func (c *Config) BindTokenFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.SecretKey, "secret", "s", c.SecretKey, "secret key")
	fs.StringVar(&c.TokenIssuer, "issuer", c.TokenIssuer, "token issuer")
	fs.DurationVar(&c.TokenValidity, "ttl", c.TokenValidity, "token validity")
}
