package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/metrics"
	"ecotri/internal/models"
)

const chatRetryMessage = "Sorry, I could not answer that. Please try again."

// ChatService runs the follow-up conversation attached to the current
// sorting result.
type ChatService interface {
	Send(ctx context.Context, deviceID primitive.ObjectID, message string) ([]models.ChatMessage, error)
	Transcript(deviceID primitive.ObjectID) []models.ChatMessage
}

type chatService struct {
	assistant Assistant
	sessions  *SessionStore
}

func NewChatService(assistant Assistant, sessions *SessionStore) ChatService {
	return &chatService{assistant: assistant, sessions: sessions}
}

// Send runs one exchange. The session's busy gate serializes turns: a send
// while a reply is outstanding returns ErrChatBusy and changes nothing. An
// assistant failure is surfaced inside the transcript as a retry message,
// never as a request error, so the conversation stays usable.
func (s *chatService) Send(ctx context.Context, deviceID primitive.ObjectID, message string) ([]models.ChatMessage, error) {
	sess := s.sessions.Get(deviceID)
	if message == "" {
		// Empty input is a no-op, not an error.
		return sess.Transcript(), nil
	}

	transcript, bin, itemName, generation, err := sess.beginChat()
	if err != nil {
		return nil, err
	}

	reply, err := s.assistant.Chat(ctx, itemName, bin, transcript, message)
	if err != nil {
		log.Warn().Err(err).Str("deviceID", deviceID.Hex()).Msg("Chat reply failed")
		reply = chatRetryMessage
	} else {
		metrics.ChatTurnsTotal.Inc()
	}

	return sess.endChat(generation, message, reply), nil
}

func (s *chatService) Transcript(deviceID primitive.ObjectID) []models.ChatMessage {
	return s.sessions.Get(deviceID).Transcript()
}
