package relaycast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycast/relaycast-go/transport"
)

const publishAck = `[1,"Sent","14847037706349940"]`

func TestPublishSyncGet(t *testing.T) {
	var gotPath, gotUUID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUUID = r.URL.Query().Get("uuid")
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	res, err := client.Publish().
		Channel("room1").
		Message(map[string]string{"text": "hello"}).
		Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(14847037706349940), res.Timetoken)
	assert.True(t, strings.HasPrefix(gotPath, "/publish/demo/demo/0/room1/0/"), "path %q", gotPath)
	assert.Contains(t, gotPath, "%22text%22")
	assert.Equal(t, client.UUID(), gotUUID)
}

func TestPublishSyncPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/publish/demo/demo/0/room1/0", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hello"}`, string(body))
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	res, err := client.Publish().
		Channel("room1").
		Message(map[string]string{"text": "hello"}).
		UsePost(true).
		Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(14847037706349940), res.Timetoken)
}

func TestPublishStoreAndTTLParams(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.Publish().
		Channel("room1").
		Message("m").
		ShouldStore(false).
		TTL(24).
		Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"0"}, query["store"])
	assert.Equal(t, []string{"24"}, query["ttl"])
}

func TestPublishBuilderValidation(t *testing.T) {
	client, err := NewClient(validConfig())
	require.NoError(t, err)
	defer client.Close()

	t.Run("missing channel", func(t *testing.T) {
		_, err := client.Publish().Message("m").Sync(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel")
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := client.Publish().Channel("room1").Sync(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message")
	})

	t.Run("missing publish key", func(t *testing.T) {
		cfg := validConfig()
		cfg.PublishKey = ""
		keyless, err := NewClient(cfg)
		require.NoError(t, err)
		defer keyless.Close()

		_, err = keyless.Publish().Channel("room1").Message("m").Sync(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish key")
	})
}

func TestPublishRejectedAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[0,"Invalid","0"]`)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.Publish().Channel("room1").Message("m").Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid")
}

func TestPublishAsync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	done := make(chan *PublishResponse, 1)
	client.Publish().Channel("room1").Message("m").Async(context.Background(),
		func(res *PublishResponse) { done <- res },
		func(err error) { t.Errorf("unexpected error: %v", err) })

	res := <-done
	assert.Equal(t, int64(14847037706349940), res.Timetoken)
}

func TestPublishFuture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	future := client.Publish().Channel("room1").Message("m").Future(context.Background())
	raw, err := future.Await(context.Background())
	require.NoError(t, err)

	res, err := ParsePublishResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(14847037706349940), res.Timetoken)
}

func TestFireSendsNoReplicationFlags(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		assert.True(t, strings.HasPrefix(r.URL.Path, "/publish/demo/demo/0/room1/0"))
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	res, err := client.Fire().Channel("room1").Message("bla").Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(14847037706349940), res.Timetoken)
	assert.Equal(t, []string{"true"}, query["norep"])
	assert.Equal(t, []string{"0"}, query["store"])
}

func TestFireFuture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, publishAck)
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	future := client.Fire().Channel("room1").Message("bla").Future(context.Background())
	raw, err := future.Await(context.Background())
	require.NoError(t, err)

	res, err := ParsePublishResponse(raw)
	require.NoError(t, err)
	assert.NotZero(t, res.Timetoken)
}

func TestFireSurfacesClassifiedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Invalid Key")
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.Fire().Channel("room1").Message("bla").Sync(context.Background())

	var terr *transport.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, transport.KindClient, terr.Kind)
	assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	assert.Equal(t, "Invalid Key", terr.Message)
}
