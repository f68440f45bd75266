// Package pubsub fans change payloads out to topic subscribers.
package pubsub

// PubSub delivers every payload published on a topic to each subscriber
// of that topic, in publish order per subscriber.
// Delivery is best effort: payloads published while nobody listens are lost.
type PubSub interface {
	Pub(topic string, data []byte) error
	Sub(topic string, cb func(data []byte)) (unsub func() error, err error)
}
