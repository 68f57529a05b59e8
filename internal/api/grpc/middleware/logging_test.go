package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req any) (any, error) {
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.NotFound, "unknown service")
			},
			wantCode: codes.NotFound,
		},
		{
			name: "non-grpc error is reported as Unknown",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestLogging_HandleStream(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogging(&logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch", IsServerStream: true}
	err := lg.HandleStream(nil, nil, info, func(any, grpc.ServerStream) error {
		return status.Error(codes.Canceled, "client went away")
	})

	assert.Equal(t, codes.Canceled, status.Code(err))
	assert.Contains(t, buf.String(), "gRPC request completed")
	assert.Contains(t, buf.String(), "status=Canceled")
}

func TestLogging_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogging(&logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	_, _ = lg.HandleGRPC(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/m"}, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Internal, "panic recovered")
	})

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "gRPC request failed")
}
