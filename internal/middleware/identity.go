package middleware

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const UserIDKey ctxKey = "uid"

// UserIDHeader carries the chat platform user id. It is trusted as-is.
const UserIDHeader = "x-user-id"

// skip identity for these
var open = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
}

func WithUserID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, UserIDKey, uid)
}

func UserID(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(UserIDKey).(int64)
	return uid, ok
}

func Identity() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		vals := md.Get(UserIDHeader)
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return nil, status.Error(codes.Unauthenticated, "no user id")
		}

		uid, err := strconv.ParseInt(strings.TrimSpace(vals[0]), 10, 64)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad user id")
		}

		return next(WithUserID(ctx, uid), req)
	}
}
