package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/models"
)

type chatFixture struct {
	assistant *fakeAssistant
	sessions  *SessionStore
	service   ChatService
	deviceID  primitive.ObjectID
}

// newChatFixture seeds a classified session so follow-up questions have a
// result to attach to.
func newChatFixture(t *testing.T, assistant *fakeAssistant) *chatFixture {
	t.Helper()
	sessions := NewSessionStore(testLimits())
	deviceID := primitive.NewObjectID()
	sess := sessions.Get(deviceID)
	require.NoError(t, sess.beginClassify())
	sess.completeClassify(capsuleResult(), nil, "")
	return &chatFixture{
		assistant: assistant,
		sessions:  sessions,
		service:   NewChatService(assistant, sessions),
		deviceID:  deviceID,
	}
}

func TestChatAppendsExchange(t *testing.T) {
	fx := newChatFixture(t, &fakeAssistant{reply: "Rinse it first, then drop it off."})

	transcript, err := fx.service.Send(context.Background(), fx.deviceID, "Do I need to rinse it?")
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, models.RoleUser, transcript[0].Role)
	assert.Equal(t, "Do I need to rinse it?", transcript[0].Text)
	assert.Equal(t, models.RoleAssistant, transcript[1].Role)
	assert.Equal(t, "Rinse it first, then drop it off.", transcript[1].Text)

	transcript, err = fx.service.Send(context.Background(), fx.deviceID, "And the lid?")
	require.NoError(t, err)
	assert.Len(t, transcript, 4, "turns accumulate in order")
}

func TestChatRequiresActiveResult(t *testing.T) {
	sessions := NewSessionStore(testLimits())
	svc := NewChatService(&fakeAssistant{reply: "hi"}, sessions)

	_, err := svc.Send(context.Background(), primitive.NewObjectID(), "hello?")
	assert.ErrorIs(t, err, models.ErrNoActiveResult)
}

func TestChatEmptyMessageIsNoOp(t *testing.T) {
	fx := newChatFixture(t, &fakeAssistant{reply: "unused"})

	transcript, err := fx.service.Send(context.Background(), fx.deviceID, "")
	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestChatBusyGateRejectsConcurrentSend(t *testing.T) {
	gate := make(chan struct{})
	fx := newChatFixture(t, &fakeAssistant{reply: "done", chatGate: gate})

	firstDone := make(chan error, 1)
	go func() {
		_, err := fx.service.Send(context.Background(), fx.deviceID, "first question")
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		return fx.sessions.Get(fx.deviceID).Snapshot().ChatBusy
	}, 2*time.Second, 5*time.Millisecond)

	_, err := fx.service.Send(context.Background(), fx.deviceID, "second question")
	assert.ErrorIs(t, err, models.ErrChatBusy)

	close(gate)
	require.NoError(t, <-firstDone)

	transcript := fx.service.Transcript(fx.deviceID)
	require.Len(t, transcript, 2, "the rejected send must leave no trace")
	assert.Equal(t, "first question", transcript[0].Text)
}

func TestChatFailureBecomesRetryMessage(t *testing.T) {
	fx := newChatFixture(t, &fakeAssistant{chatErr: errors.New("upstream 500")})

	transcript, err := fx.service.Send(context.Background(), fx.deviceID, "Do I need to rinse it?")
	require.NoError(t, err, "a failed reply is not a request error")
	require.Len(t, transcript, 2)
	assert.Equal(t, models.RoleAssistant, transcript[1].Role)
	assert.Equal(t, chatRetryMessage, transcript[1].Text)

	assert.False(t, fx.sessions.Get(fx.deviceID).Snapshot().ChatBusy, "the busy gate must release after a failure")
}

func TestResetClearsTranscript(t *testing.T) {
	fx := newChatFixture(t, &fakeAssistant{reply: "sure"})

	_, err := fx.service.Send(context.Background(), fx.deviceID, "Do I need to rinse it?")
	require.NoError(t, err)

	fx.sessions.Get(fx.deviceID).Reset()
	assert.Empty(t, fx.service.Transcript(fx.deviceID))
}
