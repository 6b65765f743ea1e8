// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"sync"
)

// Event is one observation from a monitored stream. Fraction is in
// [0, 1]. Done marks stream completion and is emitted exactly once.
type Event struct {
	Fraction float64
	Done     bool
}

// linePattern matches the provisioning progress protocol: any line of
// the form "Progress: <number>%". Lines that do not match are ignored,
// never treated as errors.
var linePattern = regexp.MustCompile(`^Progress:\s*([0-9]+(?:\.[0-9]+)?)%`)

// Parse extracts a progress event from one output line. The second
// return value is false for non-matching lines.
func Parse(line string) (Event, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Event{}, false
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return Event{Fraction: pct / 100}, true
}

// Scan consumes a stream line by line, invoking fn for every progress
// event, and emits a final Done event when the stream ends. The stream
// is never buffered in full.
func Scan(r io.Reader, fn func(Event)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if event, ok := Parse(scanner.Text()); ok {
			fn(event)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	fn(Event{Fraction: 1, Done: true})
	return nil
}

// Broadcaster fans events out to any number of subscribers. Multiple
// independent front ends may observe the same invocation's stream; the
// producer never knows who is listening.
type Broadcaster struct {
	mu   sync.Mutex
	subs []func(Event)
}

// Subscribe registers a listener. Listeners are invoked synchronously
// in subscription order on the emitting goroutine.
func (b *Broadcaster) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Emit delivers an event to all subscribers.
func (b *Broadcaster) Emit(event Event) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, fn := range subs {
		fn(event)
	}
}

// Writer returns an io.Writer that parses the written byte stream line
// by line and emits matching events through the broadcaster. Partial
// lines are carried across writes.
func (b *Broadcaster) Writer() io.Writer {
	return &lineWriter{broadcaster: b}
}

type lineWriter struct {
	broadcaster *Broadcaster
	partial     bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.partial.Write(p)
	for {
		line, err := w.partial.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			w.partial.WriteString(line)
			break
		}
		if event, ok := Parse(line[:len(line)-1]); ok {
			w.broadcaster.Emit(event)
		}
	}
	return len(p), nil
}
