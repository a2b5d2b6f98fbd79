package datastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/playforge/core/internal/catalog"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Client, *catalog.Store) {
	t.Helper()

	store, err := catalog.NewStore(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(store, logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx, "127.0.0.1:0"))
	t.Cleanup(func() {
		cancel()
		srv.Stop()
	})

	addr := srv.listener.Addr().String()
	client, err := NewClient(addr, 2)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, store
}

func TestClientCreateAndReadUser(t *testing.T) {
	client, _ := startTestServer(t)

	var created struct {
		User catalog.User `json:"user"`
	}
	err := client.Call("User", "create", map[string]string{"name": "alice", "password": "hunter2"}, &created)
	require.NoError(t, err)
	require.Equal(t, "alice", created.User.Name)
	require.NotEmpty(t, created.User.PasswordHash)
	require.NotEqual(t, "hunter2", created.User.PasswordHash)

	var read struct {
		User catalog.User `json:"user"`
	}
	err = client.Call("User", "read", map[string]uint32{"id": created.User.ID}, &read)
	require.NoError(t, err)
	require.Equal(t, created.User.ID, read.User.ID)
}

func TestClientDuplicateUserNameSurfacesAsError(t *testing.T) {
	client, _ := startTestServer(t)

	require.NoError(t, client.Call("User", "create", map[string]string{"name": "alice", "password": "p"}, nil))
	err := client.Call("User", "create", map[string]string{"name": "alice", "password": "p2"}, nil)
	require.Error(t, err)
}

func TestClientSequentialRequestsAreAllApplied(t *testing.T) {
	client, _ := startTestServer(t)

	for i := 0; i < 20; i++ {
		err := client.Call("User", "create", map[string]string{"name": fmt.Sprintf("user%d", i), "password": "p"}, nil)
		require.NoError(t, err)
	}

	var queried struct {
		Users []catalog.User `json:"users"`
	}
	require.NoError(t, client.Call("User", "query", map[string]string{}, &queried))
	require.Len(t, queried.Users, 20)
}
