// Package natsclient manages the NATS connection the storefront publishes
// change events on.
//
// The client wraps a single *nats.Conn and tracks its state through the
// nats.go connection callbacks:
//
//	client, err := natsclient.NewClient("nats://localhost:4222",
//	    natsclient.WithLogger(logger),
//	    natsclient.WithTimeout(5*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err // transient
//	}
//	defer client.Close(ctx)
//
//	err = client.Publish(ctx, "storefront.user.created", payload)
//
// Reconnection is left to nats.go (unlimited attempts by default). While the
// connection is down Publish returns ErrNotConnected instead of buffering.
//
// Close drains outstanding messages, bounded by the drain timeout or the
// context deadline, whichever is shorter, then closes the connection and
// clears credentials.
package natsclient
