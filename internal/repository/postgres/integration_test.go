//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/linkverify-server/database"
	"github.com/dtroode/linkverify-server/internal/model"
	repo "github.com/dtroode/linkverify-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "linkverify_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/linkverify_test?sslmode=disable", host, port.Port())

	if err := database.Migrate(ctx, dsn); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newRepository(t *testing.T) *repo.VerificationRepository {
	t.Helper()

	conn, err := repo.NewConnection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return repo.NewVerificationRepository(conn)
}

func TestVerificationRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	vr := newRepository(t)

	created, err := vr.Create(ctx, model.VerificationRecord{UserID: 1, PageToken: "abc", VerifyToken: "xyz"})
	require.NoError(t, err)
	require.Equal(t, model.StatePending, created.State)

	_, err = vr.Create(ctx, model.VerificationRecord{UserID: 1, PageToken: "other"})
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	cached, err := vr.CacheDestination(ctx, 1, "https://short.ly/q1")
	require.NoError(t, err)
	require.Equal(t, model.StateVerifiedUnused, cached.State)
	require.Equal(t, "https://short.ly/q1", cached.CachedDestinationURL)

	cached, err = vr.CacheDestination(ctx, 1, "https://short.ly/q2")
	require.NoError(t, err)
	require.Equal(t, "https://short.ly/q1", cached.CachedDestinationURL)

	now := time.Now().UTC().Truncate(time.Microsecond)
	used, err := vr.CompareAndSetUsed(ctx, model.CompareAndSetParams{
		UserID:         1,
		ExpectedState:  model.StateVerifiedUnused,
		DestinationURL: "https://short.ly/q3",
		Browser:        model.BrowserTelegram,
		IP:             "10.0.0.1",
		Now:            now,
	})
	require.NoError(t, err)
	require.Equal(t, model.StateUsed, used.State)
	require.Equal(t, "https://short.ly/q1", used.CachedDestinationURL)
	require.NotNil(t, used.UsedAt)
	require.True(t, now.Equal(*used.UsedAt))
	require.Equal(t, "telegram", used.UsedByBrowser)

	_, err = vr.CompareAndSetUsed(ctx, model.CompareAndSetParams{
		UserID:         1,
		ExpectedState:  model.StateVerifiedUnused,
		DestinationURL: "https://short.ly/q4",
		Now:            time.Now(),
	})
	require.ErrorIs(t, err, model.ErrConflict)

	got, err := vr.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "https://short.ly/q1", got.CachedDestinationURL)
	require.True(t, now.Equal(*got.UsedAt))

	_, err = vr.Get(ctx, 999)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = vr.CompareAndSetUsed(ctx, model.CompareAndSetParams{
		UserID:         999,
		ExpectedState:  model.StatePending,
		DestinationURL: "https://short.ly/q5",
		Now:            time.Now(),
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestVerificationRepository_ConcurrentCompareAndSet(t *testing.T) {
	ctx := context.Background()
	vr := newRepository(t)

	_, err := vr.Create(ctx, model.VerificationRecord{UserID: 2, PageToken: "abc", VerifyToken: "xyz"})
	require.NoError(t, err)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := vr.CompareAndSetUsed(ctx, model.CompareAndSetParams{
				UserID:         2,
				ExpectedState:  model.StatePending,
				DestinationURL: fmt.Sprintf("https://short.ly/%d", i),
				Now:            time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, model.ErrConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, callers-1, conflicts)
}
