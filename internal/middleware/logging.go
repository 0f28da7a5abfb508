// Package middleware holds the Connect interceptors every service is
// wrapped with.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// Request messages expose the group or user they address through these
// getters. Messages without them are logged untagged.
type (
	groupScoped interface{ GetGroupID() string }
	userScoped  interface{ GetUserID() string }
)

// LoggingInterceptor logs one line per unary call, tagged with the group
// and user the request addresses. Failures the caller can fix log at Warn;
// internal failures at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := append(scopeAttrs(req.Any()),
				slog.String("procedure", req.Spec().Procedure),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			level, msg := slog.LevelInfo, "RPC ok"
			if err != nil {
				code := connect.CodeOf(err)
				level, msg = levelFor(code), "RPC error"
				attrs = append(attrs, slog.String("code", code.String()), slog.Any("error", cause(err)))
			}
			slog.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

func scopeAttrs(msg any) []slog.Attr {
	var attrs []slog.Attr
	if g, ok := msg.(groupScoped); ok && g.GetGroupID() != "" {
		attrs = append(attrs, slog.String("group_id", g.GetGroupID()))
	}
	if u, ok := msg.(userScoped); ok && u.GetUserID() != "" {
		attrs = append(attrs, slog.String("user_id", u.GetUserID()))
	}
	return attrs
}

func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError
	}
	return slog.LevelWarn
}

// cause drops the code prefix Connect adds to error strings.
func cause(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Unwrap() != nil {
		return connectErr.Unwrap()
	}
	return err
}
