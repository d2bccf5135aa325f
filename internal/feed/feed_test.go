// internal/feed/feed_test.go
package feed

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkrv/airtag-relay/internal/airtag"
	"github.com/mkrv/airtag-relay/internal/registry"
)

func validData() string {
	return base64.StdEncoding.EncodeToString(make([]byte, airtag.BinDataLen))
}

func newTestPoller(t *testing.T, serverURL string, capacity int) (*Poller, *registry.Registry) {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:    serverURL,
		ValidOnly:  true,
		Capacity:   capacity,
		Rotate:     true,
		BufferSize: 4096,
	})
	require.NoError(t, err)

	reg := registry.New(capacity)
	p, err := New(client, reg, time.Minute, zap.NewNop())
	require.NoError(t, err)
	return p, reg
}

func TestClient_RequestParameters(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	p, _ := newTestPoller(t, srv.URL, 8)
	require.NoError(t, p.PollOnce(context.Background()))

	assert.Contains(t, got, "valid=true")
	assert.Contains(t, got, "num=8")
	assert.Contains(t, got, "offset=true")
}

func TestClient_PortOverride(t *testing.T) {
	c, err := NewClient(Config{
		BaseURL:    "http://feed.local/airtags",
		Port:       8443,
		Capacity:   4,
		BufferSize: 1024,
	})
	require.NoError(t, err)
	assert.Contains(t, c.URL(), "feed.local:8443")
}

func TestPollOnce_ReplacesRegistry(t *testing.T) {
	body := fmt.Sprintf(`[{"id":1,"data":"%s","valid":true,"valid_from":0,"valid_to":99,"valid_for":9}]`, validData())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	p, reg := newTestPoller(t, srv.URL, 8)
	require.NoError(t, p.PollOnce(context.Background()))

	require.Equal(t, 1, reg.Len())
	tag, _, ok := reg.SnapshotAt(0)
	require.True(t, ok)
	assert.Equal(t, uint32(1), tag.ID)
	assert.True(t, tag.Valid)

	// Unknown wire fields must not break parsing; the validity window is
	// the service's concern.
	_, err := tag.ToAdvertisement()
	assert.NoError(t, err)
}

func TestPollOnce_EmptyFeedEmptiesRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	p, reg := newTestPoller(t, srv.URL, 8)
	reg.Replace([]airtag.Tag{{ID: 5, Data: validData(), Valid: true}})

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Equal(t, 0, reg.Len())
}

func TestPollOnce_ParseFailureKeepsRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":1,`) // truncated JSON
	}))
	defer srv.Close()

	p, reg := newTestPoller(t, srv.URL, 8)
	before := []airtag.Tag{{ID: 5, Data: validData(), Valid: true}}
	reg.Replace(before)

	require.Error(t, p.PollOnce(context.Background()))
	assert.Equal(t, before, reg.Snapshot(), "a parse failure must leave the registry untouched")
}

func TestPollOnce_RequestFailureKeepsRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	srv.Close() // refuse connections

	p, reg := newTestPoller(t, srv.URL, 8)
	before := []airtag.Tag{{ID: 5, Data: validData(), Valid: true}}
	reg.Replace(before)

	require.Error(t, p.PollOnce(context.Background()))
	assert.Equal(t, before, reg.Snapshot())
}

func TestFetch_TruncatesOversizedBody(t *testing.T) {
	// An array larger than the buffer gets cut mid-document; the parse
	// fails and the registry survives.
	big := "[" + strings.Repeat(fmt.Sprintf(`{"id":1,"data":"%s","valid":true},`, validData()), 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, big)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Capacity: 8, BufferSize: 64})
	require.NoError(t, err)

	body, status, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body, 64)

	reg := registry.New(8)
	p, err := New(client, reg, time.Minute, zap.NewNop())
	require.NoError(t, err)
	require.Error(t, p.PollOnce(context.Background()))
	assert.Equal(t, 0, reg.Len())
}

func TestRun_PollsImmediatelyThenStops(t *testing.T) {
	polls := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		polls <- struct{}{}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	p, _ := newTestPoller(t, srv.URL, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-polls:
	case <-time.After(2 * time.Second):
		t.Fatal("no poll before the first tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}
