package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Backend kinds.
const (
	KindMemory  = "memory"
	KindGRPC    = "grpc"
	KindSurreal = "surreal"
	KindS3      = "s3"
)

type GRPCOptions struct {
	Addr        string `json:"addr" yaml:"addr"`
	AccessToken string `json:"access_token" yaml:"access_token"`
}

type Options struct {
	Kind    string         `json:"kind" yaml:"kind"`
	GRPC    GRPCOptions    `json:"grpc" yaml:"grpc"`
	Surreal SurrealOptions `json:"surreal" yaml:"surreal"`
	S3      S3Options      `json:"s3" yaml:"s3"`
	// DialAttempts bounds the initial connection retries.
	DialAttempts uint64        `json:"dial_attempts" yaml:"dial_attempts"`
	DialBackoff  time.Duration `json:"-" yaml:"-"`
	// Log receives adapter warnings. Nil discards them.
	Log logging.Logger `json:"-" yaml:"-"`
}

var ErrUnknownKind = errors.New("unknown remote store kind")

// Open builds the configured backend, retrying the initial connection with
// exponential backoff. Unauthorized and unknown-kind errors are not retried.
func Open(ctx context.Context, opts Options) (DocumentStore, error) {
	attempts := opts.DialAttempts
	if attempts == 0 {
		attempts = 3
	}
	base := opts.DialBackoff
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewExponential(base))

	var store DocumentStore
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := dial(ctx, opts)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func dial(ctx context.Context, opts Options) (DocumentStore, error) {
	switch opts.Kind {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindGRPC:
		return NewGRPCStore(opts.GRPC.Addr, opts.GRPC.AccessToken)
	case KindSurreal:
		return NewSurrealStore(ctx, opts.Surreal)
	case KindS3:
		return NewS3Store(ctx, opts.S3, opts.Log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}
