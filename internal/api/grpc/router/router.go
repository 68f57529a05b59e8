package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/linkverify-server/internal/api/grpc/handler"
	"github.com/dtroode/linkverify-server/internal/api/grpc/middleware"
	"github.com/dtroode/linkverify-server/internal/logger"
)

// Router builds the admin gRPC server.
type Router struct {
	health *handler.HealthReporter
	logger *logger.Logger
}

// New creates new gRPC Router instance.
func New(health *handler.HealthReporter, logger *logger.Logger) *Router {
	return &Router{
		health: health,
		logger: logger,
	}
}

// logSkip keeps frequent health probes out of the request log.
func logSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/grpc.health.v1.Health/")
}

// Register creates the gRPC server with logging and panic recovery and registers the
// health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := recovery.WithRecoveryHandlerContext(func(_ context.Context, p any) error {
		r.logger.Error("gRPC handler panicked",
			"panic", p)
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			selector.UnaryServerInterceptor(logging.HandleGRPC, selector.MatchFunc(logSkip)),
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(logging.HandleStream, selector.MatchFunc(logSkip)),
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	healthpb.RegisterHealthServer(s, r.health.Server())
	reflection.Register(s)

	return s
}
