// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/taibuivan/mangaonline/internal/platform/metrics"
)

// Topic carries every chapter event.
const Topic = "chapter.events"

// Publisher is what chapter services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Broadcaster is the part of [Hub] the dispatcher needs.
type Broadcaster interface {
	BroadcastFrame(ctx context.Context, frame Frame) error
}

// # Outbox

// Outbox decouples committed writes from the websocket fan-out.
type Outbox struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

/*
NewOutbox constructs an in-process outbox with the given buffer size.

gochannel hands every message to its subscriber on a separate goroutine, so
Publish waits for the dispatcher's ack. That keeps events from one publisher in
order: a ChapterDeleted never overtakes the LoadNotification before it. The
dispatcher acks once the frame is queued on the hub, so the wait is short.
*/
func NewOutbox(buffer int, logger *slog.Logger) *Outbox {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            int64(buffer),
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(logger),
	)
	return &Outbox{pubSub: pubSub, logger: logger}
}

/*
Publish enqueues an event.

Failures are counted and returned. Callers log them and carry on since the
write that produced the event has already committed.
*/
func (outbox *Outbox) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		metrics.OutboxPublishFailuresTotal.WithLabelValues(string(event.Kind)).Inc()
		return fmt.Errorf("notify: failed to encode event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := outbox.pubSub.Publish(Topic, msg); err != nil {
		metrics.OutboxPublishFailuresTotal.WithLabelValues(string(event.Kind)).Inc()
		return fmt.Errorf("notify: failed to publish event: %w", err)
	}
	return nil
}

// Subscribe opens a stream of raw outbox messages.
func (outbox *Outbox) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return outbox.pubSub.Subscribe(ctx, Topic)
}

// Close stops the outbox and closes all subscriptions.
func (outbox *Outbox) Close() error {
	return outbox.pubSub.Close()
}

// # Dispatcher

// Dispatcher moves outbox events onto the hub.
type Dispatcher struct {
	outbox      *Outbox
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewDispatcher constructs a [Dispatcher].
func NewDispatcher(outbox *Outbox, broadcaster Broadcaster, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{outbox: outbox, broadcaster: broadcaster, logger: logger}
}

/*
Run subscribes to the outbox and broadcasts until ctx ends or the outbox closes.

Every message is acked, including the ones that fail: a broadcast is not
retried because clients that missed it would not get a replay anyway.
*/
func (dispatcher *Dispatcher) Run(ctx context.Context) error {
	messages, err := dispatcher.outbox.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("notify: failed to subscribe to %s: %w", Topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			dispatcher.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (dispatcher *Dispatcher) handle(ctx context.Context, msg *message.Message) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		dispatcher.logger.Error("outbox_decode_failed",
			slog.String("message_id", msg.UUID),
			slog.String("error", err.Error()),
		)
		return
	}

	frame, err := event.Frame()
	if err != nil {
		dispatcher.logger.Error("outbox_frame_failed", slog.String("error", err.Error()))
		return
	}

	if err := dispatcher.broadcaster.BroadcastFrame(ctx, frame); err != nil {
		metrics.OutboxPublishFailuresTotal.WithLabelValues(string(event.Kind)).Inc()
		dispatcher.logger.Warn("broadcast_failed",
			slog.String("event", frame.Event),
			slog.String("manga_id", event.MangaID),
			slog.String("error", err.Error()),
		)
		return
	}

	dispatcher.logger.Info("broadcast_sent",
		slog.String("event", frame.Event),
		slog.String("manga_id", event.MangaID),
	)
}
