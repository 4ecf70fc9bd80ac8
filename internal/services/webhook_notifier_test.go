package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastNotifier() *WebhookNotifier {
	wn := NewWebhookNotifier(time.Second)
	wn.retryDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return wn
}

func TestWebhookNotifierSignsPayload(t *testing.T) {
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	fastNotifier().NotifyAppBackend(context.Background(), server.URL, "s3cret", WebhookPayload{
		Event:    "receipt.parsed",
		RecordID: "rec-1",
	})

	req := <-received
	body := <-bodies
	require.Equal(t, GenerateSignature(body, "s3cret"), req.Header.Get("X-Receipt-Signature"))
	require.NotEmpty(t, req.Header.Get("X-Receipt-Delivery"))

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "rec-1", payload.RecordID)
	require.Equal(t, req.Header.Get("X-Receipt-Delivery"), payload.DeliveryID)
	require.NotEmpty(t, payload.Timestamp)
}

func TestWebhookNotifierRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ok := fastNotifier().sendWithRetry(context.Background(), server.URL, "", WebhookPayload{RecordID: "rec-2"})
	require.True(t, ok)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookNotifierGivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ok := fastNotifier().sendWithRetry(context.Background(), server.URL, "", WebhookPayload{})
	require.False(t, ok)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, fastNotifier().sendWithRetry(ctx, server.URL, "", WebhookPayload{}))
}

func TestWebhookNotifierSkipsEmptyURL(t *testing.T) {
	require.NotPanics(t, func() {
		fastNotifier().NotifyAppBackend(context.Background(), "", "", WebhookPayload{})
	})
}
