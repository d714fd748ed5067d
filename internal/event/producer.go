package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	pkgkafka "github.com/EmmanuelKeifala/LMS-SERVER/pkg/kafka"
)

// Kafka topic constants for platform domain events.
const (
	TopicUserActivationRequested = "lms.user.activation_requested"
	TopicUserRegistered          = "lms.user.registered"
	TopicOrderCreated            = "lms.order.created"
)

// Aggregate type constants.
const (
	AggregateTypeUser  = "user"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this server.
const SourceLMSServer = "lms-server"

// UserActivationRequestedData is the payload for a user.activation_requested
// event. The notification pipeline uses it to deliver the activation code.
type UserActivationRequestedData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	UserEmail  string  `json:"user_email"`
	CourseID   string  `json:"course_id"`
	CourseName string  `json:"course_name"`
	Price      float64 `json:"price"`
}

// Producer publishes platform domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserActivationRequested publishes a user.activation_requested event.
func (p *Producer) PublishUserActivationRequested(ctx context.Context, name, email, code string) error {
	data := UserActivationRequestedData{
		Name:  name,
		Email: email,
		Code:  code,
	}

	event, err := pkgkafka.NewEvent(TopicUserActivationRequested, email, AggregateTypeUser, SourceLMSServer, data)
	if err != nil {
		return fmt.Errorf("create user.activation_requested event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserActivationRequested, event); err != nil {
		return fmt.Errorf("publish user.activation_requested event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.activation_requested event",
		slog.String("email", email),
	)

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceLMSServer, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order, userEmail string, course *domain.Course) error {
	data := OrderCreatedData{
		OrderID:    order.ID,
		UserID:     order.UserID,
		UserEmail:  userEmail,
		CourseID:   course.ID,
		CourseName: course.Name,
		Price:      course.Price,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceLMSServer, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("course_id", course.ID),
	)

	return nil
}
