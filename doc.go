// Package relaycast is the Go client for the RelayCast hosted real-time
// publish/subscribe messaging service.
//
// A Client is created once from a validated Config and owns the shared
// HTTP session for its lifetime. Operations are fluent builders:
//
//	cfg := relaycast.NewConfig()
//	cfg.SubscribeKey = "sub-key"
//	cfg.PublishKey = "pub-key"
//
//	client, err := relaycast.NewClient(cfg)
//	if err != nil {
//		// invalid configuration fails here, before any request
//	}
//	defer client.Close()
//
//	res, err := client.Publish().
//		Channel("room1").
//		Message(map[string]string{"text": "hello"}).
//		Sync(ctx)
//
// Every operation supports three dispatch modes: Sync blocks the caller,
// Async delivers the outcome to exactly one of two callbacks, and Future
// returns a handle that resolves later. Failures always surface as a
// *transport.Error with a stable Kind, so callers branch on the kind
// rather than on message text.
package relaycast
