package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

const DefaultRedisChannel = "auction.events"

type LogSink struct {
	Logger *zap.Logger
}

func (LogSink) Name() string { return "log" }

func (s LogSink) Send(ctx context.Context, ev auction.Event) error {
	_ = ctx
	if s.Logger == nil {
		return nil
	}
	fields := []zap.Field{
		zap.String("event", string(ev.Type)),
		zap.Uint64("auction_id", ev.AuctionID),
		zap.Time("at", ev.At),
	}
	if ev.Seller != "" {
		fields = append(fields, zap.String("seller", ev.Seller))
	}
	if ev.Buyer != "" {
		fields = append(fields, zap.String("buyer", ev.Buyer))
	}
	if ev.FinalPrice != nil {
		fields = append(fields, zap.String("final_price", ev.FinalPrice.String()))
	}
	s.Logger.Info("auction event", fields...)
	return nil
}

type WebhookPayload struct {
	Service string        `json:"service"`
	Event   string        `json:"event"`
	Data    auction.Event `json:"data"`
}

type WebhookSink struct {
	URL  string
	HTTP *http.Client
}

func (WebhookSink) Name() string { return "webhook" }

func (s WebhookSink) Send(ctx context.Context, ev auction.Event) error {
	url := strings.TrimSpace(s.URL)
	if url == "" {
		return errors.New("webhook url required")
	}
	b, err := json.Marshal(WebhookPayload{Service: "dutch-auction", Event: string(ev.Type), Data: ev})
	if err != nil {
		return err
	}
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{StatusCode: resp.StatusCode}
	}
	return nil
}

type httpError struct {
	StatusCode int
}

func (e *httpError) Error() string {
	return "webhook http status " + http.StatusText(e.StatusCode)
}

// RedisSink publishes each event as JSON on a pub/sub channel.
type RedisSink struct {
	Client  *redis.Client
	Channel string
}

func NewRedisSink(opt *redis.Options, channel string) *RedisSink {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultRedisChannel
	}
	return &RedisSink{Client: redis.NewClient(opt), Channel: channel}
}

func (*RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, ev auction.Event) error {
	if s == nil || s.Client == nil {
		return errors.New("redis client unavailable")
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Client.Publish(ctx, s.Channel, b).Err()
}

func (s *RedisSink) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Close()
}

// OutboxSink appends every event to the auction_events table.
type OutboxSink struct {
	Repo repository.EventRepository
}

func (OutboxSink) Name() string { return "outbox" }

func (s OutboxSink) Send(ctx context.Context, ev auction.Event) error {
	if s.Repo == nil {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.Repo.InsertAuctionEvent(ctx, &models.AuctionEvent{
		Type:      string(ev.Type),
		AuctionID: ev.AuctionID,
		Payload:   datatypes.JSON(b),
		EmittedAt: at.UTC(),
	})
}
