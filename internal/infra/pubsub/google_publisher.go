package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// orderTopicPublisher publishes order events to a Cloud Pub/Sub topic with
// message ordering enabled, keyed per order.
type orderTopicPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGooglePubSubPublisher connects to the topic and fails fast when it does not exist.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topicPath}); err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	publisher := client.Publisher(topicID)
	publisher.EnableMessageOrdering = true

	logger.Info("Order event topic ready",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &orderTopicPublisher{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// PublishOrderEvent blocks until the server acknowledges the message.
func (p *orderTopicPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	key := event.OrderingKey()
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  event.Attributes(),
		OrderingKey: key,
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		// A failed publish pauses the key; later events for this order would be rejected until resumed.
		p.publisher.ResumePublish(key)

		return errors.Wrapf(err, "failed to publish %s for order %d", event.Type, event.OrderID)
	}

	deliverycontext.GetLoggerOrDefault(ctx, p.logger).Debug("Order event published",
		slog.String("event_type", event.Type),
		slog.Int64("order_id", event.OrderID),
		slog.String("event_id", event.EventID),
		slog.String("server_id", serverID),
	)

	return nil
}

func (p *orderTopicPublisher) Close() error {
	p.publisher.Stop()

	return errors.WithStack(p.client.Close())
}
