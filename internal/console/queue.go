// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package console provides the command queue that feeds runtime text
// commands to a running trainer.
//
// The queue is a plain mutex-guarded FIFO rather than a channel: the
// producer must never block no matter how far behind the consumer is, and
// the consumer polls between samples rather than waiting.
package console

import "sync"

// Queue is a thread-safe FIFO of command lines. The zero value is ready to
// use.
type Queue struct {
	mu    sync.Mutex
	items []string
}

// Push appends a command line. It never blocks.
func (q *Queue) Push(line string) {
	q.mu.Lock()
	q.items = append(q.items, line)
	q.mu.Unlock()
}

// Pop removes and returns the oldest command line. ok is false when the
// queue is empty.
func (q *Queue) Pop() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	line = q.items[0]
	q.items = q.items[1:]
	return line, true
}

// Len returns the number of queued command lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
