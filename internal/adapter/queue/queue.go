package queue

// Handler receives a message and the subject it arrived on.
type Handler func(subject string, data []byte) error

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler Handler) error
	Close() error
}
