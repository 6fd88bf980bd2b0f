package service

import (
	"context"
	"encoding/json"

	"interview-ready-be/internal/dto"
	"interview-ready-be/internal/pkg/apperror"
	"interview-ready-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	feedbackService IFeedbackService
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	feedbackService IFeedbackService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		feedbackService: feedbackService,
		logger:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal completion message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack malformed messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer_service", "precomputing feedback", map[string]interface{}{
		"interview_id": payload.SessionId.String(),
	})

	if err := cs.feedbackService.ComputeAndStore(ctx, payload.SessionId); err != nil {
		switch apperror.CodeOf(err) {
		case apperror.CodeNotFound, apperror.CodeInvalidState, apperror.CodeConflict:
			// Not retriable: the session is gone, not completed yet, or
			// another writer already stored the report.
			cs.logger.Warn("consumer_service", "skipping feedback precompute", map[string]interface{}{
				"interview_id": payload.SessionId.String(),
				"error":        err.Error(),
			})
			msg.Ack()
		default:
			cs.logger.Error("consumer_service", "feedback precompute failed", map[string]interface{}{
				"interview_id": payload.SessionId.String(),
				"error":        err.Error(),
			})
			msg.Nack()
		}
		return
	}

	cs.logger.Info("consumer_service", "feedback precomputed", map[string]interface{}{
		"interview_id": payload.SessionId.String(),
	})
	msg.Ack()
}
