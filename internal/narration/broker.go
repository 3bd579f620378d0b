// Package narration streams Commander Terra's messages word by word to the browser.
package narration

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan chan TPayload
}

// Broker passes a channel with ID from producer to the first consumer.
// The subsequent consumers block until the producer is finished so that they
// can resolve the situation e.g. by rendering the complete message at once.
//
// The producer is a goroutine spawned by the choice POST. The first consumer is
// the SSE handler. Subsequent consumers are usually reconnects.
type Broker[TID comparable, TPayload any] struct {
	stopChannel      chan struct{}
	publishChannel   chan publication[TID, TPayload]
	unpublishChannel chan publication[TID, TPayload]
	subscribeChannel chan subscription[TID, TPayload]
}

// NewBroker creates a new Broker. Call Start in a goroutine and Stop when done.
func NewBroker[TID comparable, TPayload any]() *Broker[TID, TPayload] {
	return &Broker[TID, TPayload]{
		stopChannel:      make(chan struct{}),
		publishChannel:   make(chan publication[TID, TPayload]),
		unpublishChannel: make(chan publication[TID, TPayload]),
		subscribeChannel: make(chan subscription[TID, TPayload]),
	}
}

// Start listens for publish, unpublish, and subscribe events. It blocks until Stop is called.
func (b *Broker[TID, TPayload]) Start() {
	published := map[TID]chan TPayload{}
	waiting := map[TID][]chan chan TPayload{}
	for {
		select {
		case <-b.stopChannel:
			for _, subscribers := range waiting {
				for _, s := range subscribers {
					close(s)
				}
			}
			return

		case sub := <-b.subscribeChannel:
			c := published[sub.ID]
			if c == nil {
				// Producer finished or never started.
				close(sub.Channel)
				break
			}
			if _, taken := waiting[sub.ID]; !taken {
				waiting[sub.ID] = []chan chan TPayload{}
				sub.Channel <- c
				close(sub.Channel)
				break
			}
			waiting[sub.ID] = append(waiting[sub.ID], sub.Channel)

		case pub := <-b.publishChannel:
			published[pub.ID] = pub.Channel
			for _, s := range waiting[pub.ID] {
				close(s)
			}
			delete(waiting, pub.ID)

		case pub := <-b.unpublishChannel:
			// A newer publication under the same ID stays.
			if published[pub.ID] != pub.Channel {
				break
			}
			for _, s := range waiting[pub.ID] {
				close(s)
			}
			delete(published, pub.ID)
			delete(waiting, pub.ID)
		}
	}
}

// Stop the goroutine that handles the broker. Waiting subscribers are released.
func (b *Broker[TID, TPayload]) Stop() {
	close(b.stopChannel)
}

// Subscribe to the channel with ID. The returned channel yields the producer's channel to the first subscriber.
// It is closed without a value when nothing is published, or once the producer finishes for later subscribers.
func (b *Broker[TID, TPayload]) Subscribe(id TID) <-chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	select {
	case b.subscribeChannel <- subscription[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
		close(channel)
	}
	return channel
}

// Publish the channel with ID. It replaces a previous publication with the same ID. The first subscriber of the
// new channel is served even if the old one already had a consumer.
func (b *Broker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	select {
	case b.publishChannel <- publication[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
	}
}

// Unpublish channel from ID and release the subscribers waiting for it.
//
// The producer should write to an unbuffered channel so that it blocks until it has a consumer, with a timeout
// so that it does not block forever when nobody shows up.
func (b *Broker[TID, TPayload]) Unpublish(id TID, channel chan TPayload) {
	select {
	case b.unpublishChannel <- publication[TID, TPayload]{ID: id, Channel: channel}:
	case <-b.stopChannel:
	}
}
