package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/babylog.v1.TrackerService/StartSleep"}

func echoUID(ctx context.Context, _ any) (any, error) {
	uid, _ := UserID(ctx)
	return uid, nil
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		md   metadata.MD
		want int64
		code codes.Code
	}{
		{"ok", metadata.Pairs(UserIDHeader, "42"), 42, codes.OK},
		{"padded", metadata.Pairs(UserIDHeader, " 7 "), 7, codes.OK},
		{"missing", metadata.Pairs("other", "1"), 0, codes.Unauthenticated},
		{"empty", metadata.Pairs(UserIDHeader, ""), 0, codes.Unauthenticated},
		{"not a number", metadata.Pairs(UserIDHeader, "abc"), 0, codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := metadata.NewIncomingContext(context.Background(), tt.md)
			resp, err := Identity()(ctx, nil, info, echoUID)
			assert.Equal(t, tt.code, status.Code(err))
			if tt.code == codes.OK {
				assert.Equal(t, tt.want, resp)
			}
		})
	}
}

func TestIdentityNoMetadata(t *testing.T) {
	_, err := Identity()(context.Background(), nil, info, echoUID)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))

	// another user has its own bucket
	assert.True(t, rl.Allow(2))
}

func TestRateLimitInterceptor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()
	ic := RateLimit(rl)

	ctx := WithUserID(context.Background(), 9)
	_, err := ic(ctx, nil, info, echoUID)
	require.NoError(t, err)

	_, err = ic(ctx, nil, info, echoUID)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// without identity nothing is limited
	_, err = ic(context.Background(), nil, info, echoUID)
	assert.NoError(t, err)
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()

	rl.Allow(1)
	rl.mu.Lock()
	rl.clients[1].seen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()
	rl.Allow(2)

	rl.sweep(time.Minute)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, int64(2))
}
