package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrQueueFull   = errors.New("measurement queue is full")
	ErrQueueClosed = errors.New("measurement queue is closed")
)
