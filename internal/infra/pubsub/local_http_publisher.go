package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localSubscription  = "projects/local/subscriptions/order-events-sub"
	localMaxAttempts   = 3
	localRetryInterval = 200 * time.Millisecond
)

// localHTTPPublisher pushes order events to an HTTP endpoint in the Pub/Sub push
// format, so a fulfilment service can be developed without a real topic.
// Server errors and transport failures are retried.
type localHTTPPublisher struct {
	endpoint      string
	httpClient    *http.Client
	retryInterval time.Duration
	logger        *slog.Logger
}

// PubSubPushMessage is the body Pub/Sub sends to push subscriptions.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
		OrderingKey string            `json:"orderingKey,omitempty"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:      endpoint,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		retryInterval: localRetryInterval,
		logger:        logger,
	}
}

func (p *localHTTPPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	body, err := p.encode(event)
	if err != nil {
		return err
	}

	log := deliverycontext.GetLoggerOrDefault(ctx, p.logger).With(
		slog.String("event_type", event.Type),
		slog.Int64("order_id", event.OrderID),
	)

	for attempt := 1; ; attempt++ {
		retry, err := p.post(ctx, body, event.RequestID)
		if err == nil {
			log.Debug("Order event pushed", slog.String("endpoint", p.endpoint), slog.Int("attempt", attempt))

			return nil
		}
		if !retry || attempt == localMaxAttempts {
			return err
		}

		log.Warn("Order event push failed, retrying", slog.Int("attempt", attempt), slog.Any("error", err))

		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(time.Duration(attempt) * p.retryInterval):
		}
	}
}

func (p *localHTTPPublisher) encode(event *service.OrderEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var msg PubSubPushMessage
	msg.Subscription = localSubscription
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = event.EventID
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	msg.Message.Attributes = event.Attributes()
	msg.Message.OrderingKey = event.OrderingKey()

	body, err := json.Marshal(msg)

	return body, errors.WithStack(err)
}

// post sends one push and reports whether a failure is worth retrying.
func (p *localHTTPPublisher) post(ctx context.Context, body []byte, requestID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode >= 500, errors.Errorf("event endpoint returned non-success status: %d", resp.StatusCode)
	}

	return false, nil
}

func (p *localHTTPPublisher) Close() error {
	p.httpClient.CloseIdleConnections()

	return nil
}
