// Package broadcast provides a small typed publish/subscribe primitive.
//
// The entitlement engine uses it in both directions around the session:
// an identity stream feeds Session.Follow, and every applied entitlement
// state change is republished so gates and UI code can re-evaluate:
//
//	bus := broadcast.NewMemoryBroadcaster[entitlement.State](8)
//	sub := bus.Subscribe(ctx)
//	for msg := range sub.Receive(ctx) {
//		// react to msg.Data
//	}
//
// Delivery is best-effort: a subscriber that cannot keep up loses
// messages rather than back-pressuring the publisher. That is the right
// trade-off for state republication, where only the latest value matters.
package broadcast
