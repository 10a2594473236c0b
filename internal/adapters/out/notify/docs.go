// Package notify delivers user notifications. LogNotifier writes them to
// the application log for local development, RabbitMQNotifier hands them to
// a mail worker through a durable queue, and Dispatcher moves delivery off
// the request path.
package notify
