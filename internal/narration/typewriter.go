package narration

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Typewrite emits message in word chunks, pausing delay between them. Each chunk carries its leading whitespace so
// that concatenating every chunk restores the message. The returned channel is closed when the message is done or
// ctx is cancelled.
func Typewrite(ctx context.Context, message string, delay time.Duration) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for i, chunk := range Chunks(message) {
			if i > 0 && delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- chunk:
			}
		}
	}()
	return out
}

// Chunks splits message into words, each prefixed with the whitespace that preceded it.
func Chunks(message string) []string {
	var (
		chunks  []string
		current strings.Builder
		inWord  bool
	)
	for _, r := range message {
		if unicode.IsSpace(r) && inWord {
			chunks = append(chunks, current.String())
			current.Reset()
			inWord = false
		}
		if !unicode.IsSpace(r) {
			inWord = true
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		if inWord || len(chunks) == 0 {
			chunks = append(chunks, current.String())
		} else {
			chunks[len(chunks)-1] += current.String()
		}
	}
	return chunks
}

// minStall bounds how long a started stream waits for a consumer that stopped reading.
const minStall = 100 * time.Millisecond

// Narrator publishes typewriter streams keyed by session so that the SSE handler can pick them up.
type Narrator struct {
	broker  *Broker[string, string]
	delay   time.Duration
	timeout time.Duration
	stall   time.Duration
}

// NewNarrator creates a Narrator. Call Start in a goroutine.
func NewNarrator(delay, timeout time.Duration) *Narrator {
	return &Narrator{
		broker:  NewBroker[string, string](),
		delay:   delay,
		timeout: timeout,
		stall:   max(minStall, 10*delay), //nolint:mnd // ten missed chunks
	}
}

func (n *Narrator) Start() { n.broker.Start() }
func (n *Narrator) Stop()  { n.broker.Stop() }

// Narrate starts streaming message for id. It returns immediately. The stream is abandoned after the timeout when no
// subscriber consumes it, or sooner when its consumer stops reading midway.
func (n *Narrator) Narrate(id, message string) {
	channel := make(chan string)
	n.broker.Publish(id, channel)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		defer n.broker.Unpublish(id, channel)
		defer close(channel)
		stalled := time.NewTimer(n.timeout)
		defer stalled.Stop()
		for chunk := range Typewrite(ctx, message, n.delay) {
			select {
			case channel <- chunk:
			case <-ctx.Done():
				return
			case <-stalled.C:
				return
			}
			if !stalled.Stop() {
				<-stalled.C
			}
			stalled.Reset(n.stall)
		}
	}()
}

// Subscribe returns the chunk stream for id. ok is false when there is nothing to stream and the caller should
// render the full message instead. It also gives up when ctx is done while waiting for another consumer's stream.
func (n *Narrator) Subscribe(ctx context.Context, id string) (<-chan string, bool) {
	select {
	case channel, ok := <-n.broker.Subscribe(id):
		return channel, ok && channel != nil
	case <-ctx.Done():
		return nil, false
	}
}
