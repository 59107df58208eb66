package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial model.Snapshot
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Empty(t, initial.Customers)

	_, err = env.store.AddCustomer("John", "123456789")
	require.NoError(t, err)

	var update model.Snapshot
	require.NoError(t, conn.ReadJSON(&update))
	require.Len(t, update.Customers, 1)
	assert.Equal(t, "John", update.Customers[0].Name)
	assert.Greater(t, update.Version, initial.Version)
}

func TestFeedRequiresToken(t *testing.T) {
	env := newTestEnv(t, Config{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestFeedSkipsStaleSnapshots(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial model.Snapshot
	require.NoError(t, conn.ReadJSON(&initial))

	// Each change publishes one past the restored version, so the middle
	// one arrives older than what the client already has.
	for _, version := range []uint64{10, 3, 20} {
		env.store.Restore(model.Snapshot{Version: version})
		_, err := env.store.AddCustomer("John", "123456789")
		require.NoError(t, err)
	}

	var first, second model.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, uint64(11), first.Version)
	assert.Equal(t, uint64(21), second.Version)
}
