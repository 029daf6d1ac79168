//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush9goyal/graphql-k8s-demo/natsclient"
)

func TestIntegration_NATSPublisher(t *testing.T) {
	ctx := context.Background()
	server := natsclient.StartTestServer(t)

	client, err := natsclient.NewClient(server.URL)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx))
	defer client.Close(ctx)

	sub, err := nats.Connect(server.URL)
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("storefront.product.created", received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	pub := NewNATSPublisher(client, "", nil, nil)
	require.NoError(t, pub.Publish(ctx, Created(EntityProduct, "p1", map[string]any{"price": 10.0})))
	require.NoError(t, client.Flush(ctx))

	select {
	case msg := <-received:
		var event map[string]any
		require.NoError(t, json.Unmarshal(msg.Data, &event))
		assert.Equal(t, "product.created", event["type"])
		assert.Equal(t, "p1", event["id"])
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}
