package server

import (
	"context"
	"log/slog"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ChatServiceName is the service reported next to the overall "" status.
const ChatServiceName = "skillsync.chat"

// HealthServer exposes grpc.health.v1 for orchestrators. It runs as a
// supervised worker: SERVING while Run is active, NOT_SERVING afterwards.
type HealthServer struct {
	log    *slog.Logger
	health *health.Server
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ChatServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{log: log, health: h}
}

// NewGrpcServer builds a gRPC server with request logging and the health service registered.
func (s *HealthServer) NewGrpcServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(s.log)))
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

func (s *HealthServer) Run(ctx context.Context) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ChatServiceName, healthpb.HealthCheckResponse_SERVING)
	s.log.Debug("Health status set to SERVING")

	<-ctx.Done()
	// Shutdown flips every service to NOT_SERVING and ignores later updates
	s.health.Shutdown()
	s.log.Debug("Health status set to NOT_SERVING")
	return nil
}
