package transport

import (
	"context"
	"time"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"golang.org/x/time/rate"
)

// Chain creates a single Middleware from a series of middlewares.
// The middlewares are applied in the order they are passed.
func Chain(middlewares ...Middleware) Middleware {
	return func(base Dialer) Dialer {
		for i := len(middlewares) - 1; i >= 0; i-- {
			base = middlewares[i](base)
		}
		return base
	}
}

// LoggingMiddleware creates a middleware that logs dial attempts.
func LoggingMiddleware(logger logging.Logger) Middleware {
	return func(base Dialer) Dialer {
		return DialerFunc(func(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
			logger.Debug("Dialing link", "endpoint", ep.Description())
			link, err := base.DialLink(ctx, ep)
			if err != nil {
				logger.Warn("Link dial failed", "endpoint", ep.Description(), "error", err)
			} else {
				logger.Info("Link established", "endpoint", ep.Description(), "reliable", link.IsReliable())
			}
			return link, err
		})
	}
}

// TimeoutMiddleware creates a middleware that applies a timeout to dial operations.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(base Dialer) Dialer {
		return DialerFunc(func(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return base.DialLink(ctx, ep)
		})
	}
}

// RetryMiddleware creates a middleware that retries failed dial attempts.
func RetryMiddleware(attempts int, delay time.Duration) Middleware {
	return func(base Dialer) Dialer {
		return DialerFunc(func(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
			var lastErr error
			for i := 0; i < attempts; i++ {
				link, err := base.DialLink(ctx, ep)
				if err == nil {
					return link, nil
				}
				lastErr = err
				if i == attempts-1 {
					break
				}

				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
			}
			return nil, lastErr
		})
	}
}

// ThrottlingMiddleware creates a middleware for rate limiting dial attempts.
func ThrottlingMiddleware(r rate.Limit, b int) Middleware {
	limiter := rate.NewLimiter(r, b)
	return func(base Dialer) Dialer {
		return DialerFunc(func(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return base.DialLink(ctx, ep)
		})
	}
}
