//go:build integration

package natsclient

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ConnectPublish(t *testing.T) {
	ctx := context.Background()
	server := StartTestServer(t)

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx))
	defer client.Close(ctx)

	assert.True(t, client.IsHealthy())
	rtt, err := client.RTT()
	require.NoError(t, err)
	assert.Greater(t, rtt, time.Duration(0))

	sub, err := nats.Connect(server.URL)
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("storefront.>", received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	require.NoError(t, client.Publish(ctx, "storefront.user.created", []byte(`{"id":"1"}`)))
	require.NoError(t, client.Flush(ctx))

	select {
	case msg := <-received:
		assert.Equal(t, "storefront.user.created", msg.Subject)
		assert.JSONEq(t, `{"id":"1"}`, string(msg.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
