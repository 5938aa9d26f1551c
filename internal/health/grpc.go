package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// GRPCServer exposes the standard grpc.health.v1 service. Its serving status
// follows the readiness checks of the HTTP health server.
type GRPCServer struct {
	address  string
	server   *grpc.Server
	health   *health.Server
	checks   *Server
	interval time.Duration
	logger   *logrus.Logger
}

// NewGRPCServer creates a gRPC health server. The service name of checks is
// registered next to the overall "" service.
func NewGRPCServer(address string, checks *Server, interval time.Duration, logger *logrus.Logger) *GRPCServer {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	srv := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	g := &GRPCServer{
		address:  address,
		server:   srv,
		health:   hs,
		checks:   checks,
		interval: interval,
		logger:   logger,
	}
	g.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return g
}

// Sync runs the readiness checks once and publishes the result.
func (g *GRPCServer) Sync(ctx context.Context) bool {
	results, healthy := g.checks.RunChecks(ctx)
	if healthy {
		g.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		g.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		if g.logger != nil {
			g.logger.WithField("checks", results).Warn("gRPC health not serving")
		}
	}
	return healthy
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (g *GRPCServer) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", g.address, err)
	}
	return g.ServeListener(ctx, lis)
}

// ServeListener serves on an existing listener and blocks until ctx is cancelled.
func (g *GRPCServer) ServeListener(ctx context.Context, lis net.Listener) error {
	go g.syncLoop(ctx)

	go func() {
		<-ctx.Done()
		g.health.Shutdown()
		g.server.GracefulStop()
	}()

	if g.logger != nil {
		g.logger.WithField("address", lis.Addr().String()).Info("gRPC health server starting")
	}
	if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc health server: %w", err)
	}
	return nil
}

func (g *GRPCServer) syncLoop(ctx context.Context) {
	g.Sync(ctx)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sync(ctx)
		}
	}
}

func (g *GRPCServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(g.checks.serviceName, status)
}
