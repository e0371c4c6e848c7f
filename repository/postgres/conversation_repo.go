package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository returns a Postgres-backed implementation of ConversationRepository.
func NewConversationRepository(pool *pgxpool.Pool) repository.ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	const query = `
	SELECT id, franchise_id, guest_name, phone, email, external_id, platform, status,
	       assigned_to, last_message, last_message_at, response_time, archived, created_at, updated_at
	FROM conversations
	WHERE id = $1 AND NOT archived
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanConversation(row)
}

func (r *conversationRepository) List(ctx context.Context, filter repository.ConversationFilter) ([]domain.Conversation, error) {
	const query = `
	SELECT id, franchise_id, guest_name, phone, email, external_id, platform, status,
	       assigned_to, last_message, last_message_at, response_time, archived, created_at, updated_at
	FROM conversations
	WHERE archived = $1
	  AND ($2 = '' OR franchise_id = $2)
	  AND ($3 = '' OR platform = $3)
	  AND ($4 = '' OR status = $4)
	ORDER BY last_message_at DESC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.Archived,
		filter.FranchiseID,
		filter.Platform,
		filter.Status,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *conv)
	}
	return convs, rows.Err()
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil {
		return nil, domain.ErrInvalidPayload
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO conversations (id, franchise_id, guest_name, phone, email, external_id, platform, status, assigned_to, last_message, last_message_at, response_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()), $12)
	RETURNING last_message_at, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		conv.ID,
		conv.FranchiseID,
		conv.GuestName,
		conv.Phone,
		conv.Email,
		conv.ExternalID,
		conv.Platform,
		string(conv.Status),
		conv.AssignedTo,
		conv.LastMessage,
		nullTime(conv.LastMessageAt),
		conv.ResponseTime,
	).Scan(&conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}

	return conv, nil
}

func (r *conversationRepository) Update(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE conversations
	SET franchise_id = $2,
		guest_name = $3,
		phone = $4,
		email = $5,
		external_id = $6,
		platform = $7,
		status = $8,
		assigned_to = $9,
		last_message = $10,
		last_message_at = COALESCE($11, last_message_at),
		response_time = $12,
		updated_at = NOW()
	WHERE id = $1 AND NOT archived
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		conv.ID,
		conv.FranchiseID,
		conv.GuestName,
		conv.Phone,
		conv.Email,
		conv.ExternalID,
		conv.Platform,
		string(conv.Status),
		conv.AssignedTo,
		conv.LastMessage,
		nullTime(conv.LastMessageAt),
		conv.ResponseTime,
	).Scan(&conv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConversationNotFound
		}
		return err
	}

	return nil
}

func (r *conversationRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE conversations SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND NOT archived`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return domain.ErrInvalidPayload
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, conversation_id, direction, channel, content, delivery, sent_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	`
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Direction,
		string(msg.Channel),
		msg.Content,
		string(msg.Delivery),
		msg.SentBy,
		nullTime(msg.CreatedAt),
	)
	return err
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	const query = `
	SELECT id, conversation_id, direction, channel, content, delivery, sent_by, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var channel, delivery string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Direction, &channel, &msg.Content, &delivery, &msg.SentBy, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Channel = domain.Channel(channel)
		msg.Delivery = domain.DeliveryState(delivery)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *conversationRepository) UpdateMessageDelivery(ctx context.Context, messageID string, state domain.DeliveryState) error {
	const query = `UPDATE messages SET delivery = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, messageID, string(state))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func scanConversation(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Conversation, error) {
	var conv domain.Conversation
	var status string
	var lastMessageAt time.Time

	if err := row.Scan(
		&conv.ID,
		&conv.FranchiseID,
		&conv.GuestName,
		&conv.Phone,
		&conv.Email,
		&conv.ExternalID,
		&conv.Platform,
		&status,
		&conv.AssignedTo,
		&conv.LastMessage,
		&lastMessageAt,
		&conv.ResponseTime,
		&conv.Archived,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}

	conv.Status = domain.LeadStatus(status)
	conv.LastMessageAt = lastMessageAt
	return &conv, nil
}
