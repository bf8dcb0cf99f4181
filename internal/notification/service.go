package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	chatdomain "proview-backend/internal/chat/domain"
	"proview-backend/pkg/sse"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// ChatStatusEvent is the wire shape of one chat lifecycle transition.
type ChatStatusEvent struct {
	UserID    string    `json:"userId"`
	ChatID    string    `json:"chatId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Service fans chat status transitions out to connected clients. When a
// Pub/Sub project is configured the event takes a round trip through the
// topic so every API instance sees it; otherwise it goes straight to the
// local SSE manager.
type Service struct {
	pubsubClient *pubsub.Client
	sseManager   *sse.Manager
	projectID    string
	topicName    string
	subName      string
}

func NewService(projectID, topicName string, sseManager *sse.Manager, credentialsFile string) (*Service, error) {
	svc := &Service{
		sseManager: sseManager,
		projectID:  projectID,
		topicName:  topicName,
		subName:    topicName + "-sub", // Convention: topic-sub
	}

	if projectID == "" {
		log.Println("[PubSub] No project configured, chat events stay local")
		return svc, nil
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}
	svc.pubsubClient = client

	return svc, nil
}

// NotifyChatStatus publishes one lifecycle transition. Safe to call from any
// goroutine; failures are logged, never surfaced to the caller.
func (s *Service) NotifyChatStatus(userID, chatID string, status chatdomain.ChatStatus) {
	event := ChatStatusEvent{
		UserID:    userID,
		ChatID:    chatID,
		Status:    string(status),
		Timestamp: time.Now(),
	}

	if s.pubsubClient == nil {
		s.deliver(event)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[PubSub] Failed to marshal chat event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := s.pubsubClient.Topic(s.topicName).Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		log.Printf("[PubSub] Publish failed for chat %s, delivering locally: %v", chatID, err)
		s.deliver(event)
	}
}

// Start subscribes to the topic and forwards events to SSE. Blocks until ctx
// is cancelled; no-op when Pub/Sub is not configured.
func (s *Service) Start(ctx context.Context) {
	if s.pubsubClient == nil {
		return
	}

	log.Printf("[PubSub] Starting notification service with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}

		if !topicExists {
			if topic, err = s.pubsubClient.CreateTopic(ctx, s.topicName); err != nil {
				log.Printf("[PubSub] Failed to create topic: %v", err)
				return
			}
			log.Printf("[PubSub] Created topic: %s", s.topicName)
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	log.Printf("[PubSub] Listening for messages on subscription: %s", s.subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (s *Service) handleMessage(msg *pubsub.Message) {
	var event ChatStatusEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[PubSub] Failed to unmarshal chat event: %v", err)
		return
	}

	log.Printf("[PubSub] chat %s -> %s for user %s", event.ChatID, event.Status, event.UserID)
	s.deliver(event)
}

func (s *Service) deliver(event ChatStatusEvent) {
	if s.sseManager == nil {
		return
	}

	s.sseManager.SendToUser(event.UserID, "chat_status", map[string]interface{}{
		"chatId":    event.ChatID,
		"status":    event.Status,
		"timestamp": event.Timestamp,
	})
}
