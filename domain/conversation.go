package domain

import "time"

// Channel identifies the medium a message travels over.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelChat     Channel = "chat"
)

// DeliveryState tracks the simulated provider progression of an outbound message.
type DeliveryState string

const (
	DeliverySent      DeliveryState = "sent"
	DeliveryDelivered DeliveryState = "delivered"
	DeliveryRead      DeliveryState = "read"
)

// Conversation represents a franchise-scoped message thread with a guest.
type Conversation struct {
	ID            string     `json:"id"`
	FranchiseID   string     `json:"franchise_id,omitempty"`
	GuestName     string     `json:"guest_name"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExternalID    string     `json:"external_id,omitempty"`
	Platform      string     `json:"platform,omitempty"`
	Status        LeadStatus `json:"status"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt time.Time  `json:"last_message_at"`
	ResponseTime  int        `json:"response_time,omitempty"`
	Archived      bool       `json:"archived,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (c *Conversation) Scope() string {
	if c == nil {
		return ""
	}
	return c.FranchiseID
}

// ContactFor reports whether the conversation carries the contact info the
// given channel requires: a phone number for whatsapp/sms, an email address
// for email, and a platform external id for chat.
func (c *Conversation) ContactFor(channel Channel) bool {
	if c == nil {
		return false
	}
	switch channel {
	case ChannelWhatsApp, ChannelSMS:
		return c.Phone != ""
	case ChannelEmail:
		return c.Email != ""
	case ChannelChat:
		return c.ExternalID != ""
	default:
		return false
	}
}

// Message is a single entry in a conversation thread.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	Direction      string        `json:"direction"`
	Channel        Channel       `json:"channel"`
	Content        string        `json:"content"`
	Delivery       DeliveryState `json:"delivery,omitempty"`
	SentBy         string        `json:"sent_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
