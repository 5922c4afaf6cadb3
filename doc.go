// Package pusher is a server-side client for the Pusher Channels REST API.
//
// A Client is built once from a Config and never changes afterwards. It
// triggers events, queries channel and presence state, terminates user
// connections, sends push notifications, signs subscription and sign-in
// tokens, and validates inbound webhooks. Events for private-encrypted-
// channels are sealed end to end with a per-channel key derived from the
// configured master key.
//
//	client, err := pusher.NewFromEnv("")
//	if err != nil {
//		return err
//	}
//	_, err = client.Trigger(ctx, pusher.Event{
//		Channels: []string{"my-channel"},
//		Name:     "my-event",
//		Data:     map[string]string{"message": "hello world"},
//	})
//
// Every operation also has a Build variant that returns the signed Request
// without sending it, for callers that bring their own HTTP stack.
package pusher
