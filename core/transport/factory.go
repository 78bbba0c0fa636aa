package transport

import (
	"time"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/obfuscation"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"golang.org/x/time/rate"
)

// NewDialer builds the NetDialer for a file config, wrapped in the
// logging, throttling, retry and timeout middlewares. socketTimeout bounds
// each individual dial.
func NewDialer(cfg config.LinkConfig, obf obfuscation.Method, socketTimeout time.Duration, logger logging.Logger) (Dialer, error) {
	base, err := NewNetDialer(NetConfig{
		Obfuscation: obf,
		DialTimeout: socketTimeout,
		KeepAlive:   30 * time.Second,
		SOCKS5Proxy: cfg.SOCKS5Proxy,
	})
	if err != nil {
		return nil, err
	}

	attempts := cfg.DialRetries
	if attempts < 1 {
		attempts = 1
	}
	limit := rate.Limit(cfg.DialRate)
	if cfg.DialRate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.DialBurst
	if burst < 1 {
		burst = 1
	}

	return Chain(
		LoggingMiddleware(logger.With("component", "link")),
		ThrottlingMiddleware(limit, burst),
		RetryMiddleware(attempts, cfg.DialRetryDelay.Std()),
		TimeoutMiddleware(socketTimeout),
	)(base), nil
}
