package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/repository/memory"
)

func seedConversationWithMessage(t *testing.T, convs repository.ConversationRepository) (string, string) {
	t.Helper()
	conv, err := convs.Create(context.Background(), &domain.Conversation{
		FranchiseID: "fr-paris",
		GuestName:   "Ana",
		Status:      domain.LeadStatusNew,
	})
	require.NoError(t, err)

	msg := &domain.Message{
		ConversationID: conv.ID,
		Direction:      "outbound",
		Channel:        domain.ChannelWhatsApp,
		Content:        "hello",
		Delivery:       domain.DeliverySent,
	}
	require.NoError(t, convs.AppendMessage(context.Background(), msg))
	return conv.ID, msg.ID
}

func deliveryState(t *testing.T, convs repository.ConversationRepository, convID, msgID string) domain.DeliveryState {
	t.Helper()
	msgs, err := convs.ListMessages(context.Background(), convID)
	require.NoError(t, err)
	for _, m := range msgs {
		if m.ID == msgID {
			return m.Delivery
		}
	}
	t.Fatalf("message %s not found", msgID)
	return ""
}

func waitForState(t *testing.T, convs repository.ConversationRepository, convID, msgID string, want domain.DeliveryState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if deliveryState(t, convs, convID, msgID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("message %s never reached %s (stuck at %s)", msgID, want, deliveryState(t, convs, convID, msgID))
}

func TestProgressionAdvancesToRead(t *testing.T) {
	convs := memory.NewConversationRepository()
	convID, msgID := seedConversationWithMessage(t, convs)

	p := NewProgression(convs, 20*time.Millisecond, 60*time.Millisecond, nil)
	defer p.Close()

	p.Schedule(convID, msgID)
	waitForState(t, convs, convID, msgID, domain.DeliveryDelivered)
	waitForState(t, convs, convID, msgID, domain.DeliveryRead)
}

func TestProgressionCancelStopsTimers(t *testing.T) {
	convs := memory.NewConversationRepository()
	convID, msgID := seedConversationWithMessage(t, convs)

	p := NewProgression(convs, 50*time.Millisecond, 150*time.Millisecond, nil)
	defer p.Close()

	p.Schedule(convID, msgID)
	p.Cancel(convID)

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, domain.DeliverySent, deliveryState(t, convs, convID, msgID))
}

func TestProgressionCloseIsTerminal(t *testing.T) {
	convs := memory.NewConversationRepository()
	convID, msgID := seedConversationWithMessage(t, convs)

	p := NewProgression(convs, 20*time.Millisecond, 60*time.Millisecond, nil)
	p.Close()

	// Scheduling after shutdown is a no-op.
	p.Schedule(convID, msgID)
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, domain.DeliverySent, deliveryState(t, convs, convID, msgID))
}
