package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dtroode/linkverify-server/internal/api/grpc/handler"
	"github.com/dtroode/linkverify-server/internal/testutil"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestRouter_Register(t *testing.T) {
	lg := testutil.MakeNoopLogger()
	reporter := handler.NewHealthReporter(okPinger{}, time.Minute, lg)
	reporter.Probe(context.Background())

	s := New(reporter, lg).Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")

	ln := bufconn.Listen(1 << 16)
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return ln.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: handler.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
