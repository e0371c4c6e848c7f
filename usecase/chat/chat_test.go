package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/repository/memory"
	"github.com/dinehub/backend/usecase/access"
)

type fakeProvider struct {
	err   error
	sends int
}

func (p *fakeProvider) Send(_ context.Context, _ *domain.Conversation, _ domain.Channel, _ string) error {
	if p.err != nil {
		return p.err
	}
	p.sends++
	return nil
}

type fakeScheduler struct {
	scheduled []string
	cancelled []string
}

func (s *fakeScheduler) Schedule(conversationID, _ string) {
	s.scheduled = append(s.scheduled, conversationID)
}

func (s *fakeScheduler) Cancel(conversationID string) {
	s.cancelled = append(s.cancelled, conversationID)
}

type chatFixture struct {
	uc        *UseCase
	convs     repository.ConversationRepository
	provider  *fakeProvider
	scheduler *fakeScheduler
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	convs := memory.NewConversationRepository()
	provider := &fakeProvider{}
	scheduler := &fakeScheduler{}
	uc := New(convs, memory.NewActivityRepository(), nil, nil, provider, scheduler, nil)
	return &chatFixture{uc: uc, convs: convs, provider: provider, scheduler: scheduler}
}

func superadmin() *domain.Actor {
	return &domain.Actor{ID: "admin-1", Role: domain.RoleSuperadmin}
}

func manager(franchiseID string) *domain.Actor {
	return &domain.Actor{ID: "mgr-1", Role: domain.RoleFranchiseManager, FranchiseID: franchiseID}
}

func (f *chatFixture) seed(t *testing.T, conv domain.Conversation) *domain.Conversation {
	t.Helper()
	if conv.Status == "" {
		conv.Status = domain.LeadStatusNew
	}
	created, err := f.convs.Create(context.Background(), &conv)
	require.NoError(t, err)
	return created
}

func TestSendMessage(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", GuestName: "Ana", Phone: "+33600000001"})

	msg, err := f.uc.SendMessage(context.Background(), manager("fr-paris"), conv.ID, "Table for two tonight?", domain.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliverySent, msg.Delivery)
	assert.Equal(t, "outbound", msg.Direction)
	assert.Equal(t, 1, f.provider.sends)
	assert.Equal(t, []string{conv.ID}, f.scheduler.scheduled)

	got, err := f.uc.Get(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Table for two tonight?", got.LastMessage)
	// Sending to a fresh conversation advances it out of the new stage.
	assert.Equal(t, domain.LeadStatusContacted, got.Status)

	thread, err := f.uc.Messages(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, msg.ID, thread[0].ID)
}

func TestSendMessageKeepsLaterStage(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", Phone: "+33600000001", Status: domain.LeadStatusFollowUp})

	_, err := f.uc.SendMessage(context.Background(), superadmin(), conv.ID, "Reminder", domain.ChannelSMS)
	require.NoError(t, err)

	got, err := f.uc.Get(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, got.Status)
}

func TestSendMessageInvalidChannel(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", GuestName: "Ana"})

	// No phone on record, so whatsapp has nothing to send to.
	_, err := f.uc.SendMessage(context.Background(), superadmin(), conv.ID, "hello", domain.ChannelWhatsApp)
	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
	assert.Equal(t, 0, f.provider.sends)

	thread, err := f.uc.Messages(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestSendMessageProviderFailureLeavesStateUntouched(t *testing.T) {
	f := newChatFixture(t)
	f.provider.err = errors.New("gateway timeout")
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", Phone: "+33600000001"})

	_, err := f.uc.SendMessage(context.Background(), superadmin(), conv.ID, "hello", domain.ChannelWhatsApp)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))

	got, err := f.uc.Get(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LastMessage)
	assert.Equal(t, domain.LeadStatusNew, got.Status)
	assert.Empty(t, f.scheduler.scheduled)

	thread, err := f.uc.Messages(context.Background(), superadmin(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestSendMessageEnforcesGate(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", Phone: "+33600000001"})

	_, err := f.uc.SendMessage(context.Background(), manager("fr-lyon"), conv.ID, "hello", domain.ChannelWhatsApp)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, 0, f.provider.sends)
}

func TestUpdateStatusAndReassign(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", Phone: "+33600000001"})

	updated, err := f.uc.UpdateStatus(context.Background(), manager("fr-paris"), conv.ID, domain.LeadStatusFollowUp)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, updated.Status)

	updated, err = f.uc.Reassign(context.Background(), manager("fr-paris"), conv.ID, "staff-7")
	require.NoError(t, err)
	assert.Equal(t, "staff-7", updated.AssignedTo)
}

func TestArchiveCancelsProgressions(t *testing.T) {
	f := newChatFixture(t)
	conv := f.seed(t, domain.Conversation{FranchiseID: "fr-paris", Phone: "+33600000001"})

	_, err := f.uc.SendMessage(context.Background(), superadmin(), conv.ID, "hello", domain.ChannelWhatsApp)
	require.NoError(t, err)

	require.NoError(t, f.uc.Archive(context.Background(), manager("fr-paris"), conv.ID))
	assert.Equal(t, []string{conv.ID}, f.scheduler.cancelled)

	_, err = f.uc.Get(context.Background(), superadmin(), conv.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestListScopesToActorFranchise(t *testing.T) {
	f := newChatFixture(t)
	f.seed(t, domain.Conversation{FranchiseID: "fr-paris", GuestName: "Ana"})
	f.seed(t, domain.Conversation{FranchiseID: "fr-lyon", GuestName: "Bruno"})

	visible, err := f.uc.List(context.Background(), manager("fr-paris"), access.Criteria{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Ana", visible[0].GuestName)

	none, err := f.uc.List(context.Background(), manager(""), access.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := f.uc.List(context.Background(), superadmin(), access.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
