package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rosca/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, operator and duration. Rejections carrying an engine
// error kind log at warn; everything else that fails logs at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"operator", GetOperator(ctx), // empty if auth is disabled or runs later
				"peer", req.Peer().Addr,
			}

			resp, err := next(ctx, req)
			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())

			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				slog.Error("RPC failed", append(attrs, "error", err)...)
				return resp, err
			}

			attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
			if kind := connectErr.Meta().Get(api.ErrorKindHeader); kind != "" {
				slog.Warn("RPC rejected", append(attrs, "kind", kind)...)
			} else {
				slog.Error("RPC failed", attrs...)
			}
			return resp, err
		}
	}
}
