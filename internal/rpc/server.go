package rpc

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"babylog/internal/middleware"
)

// NewServer builds a grpc server with svc and the health service
// registered. Interceptors run as identity, logging, then rate limit.
func NewServer(svc TrackerServer, rl *middleware.RateLimiter, log *zap.Logger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Identity(),
			middleware.Logging(log),
			middleware.RateLimit(rl),
		),
	)
	Register(srv, svc)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}
