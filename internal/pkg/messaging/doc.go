// Package messaging provides a broker-agnostic API for publishing events.
//
// Business code depends on Publisher and never on a concrete broker. The
// driver is picked at startup by name (kafka, nats, nsq, google-pubsub,
// rabbitmq, or memory for local runs and tests).
package messaging
