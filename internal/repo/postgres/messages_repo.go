package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type MessageRepo interface {
	Create(ctx context.Context, senderID, receiverID, content string) (*domain.ChatMessage, error)
	Conversation(ctx context.Context, userID, otherUserID string, limit, offset int) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, receiverID, senderID string) error
	RecentHeads(ctx context.Context, userID string, limit int) ([]domain.ConversationHead, error)
}

type MessageRepoImpl struct{ pool *pgxpool.Pool }

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepoImpl { return &MessageRepoImpl{pool: pool} }

func (r *MessageRepoImpl) Create(ctx context.Context, senderID, receiverID, content string) (*domain.ChatMessage, error) {
	const q = `INSERT INTO messages (id, sender_id, receiver_id, content)
  VALUES ($1,$2,$3,$4)
  RETURNING id, sender_id, receiver_id, content, read_at, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.ChatMessage
	err := r.pool.QueryRow(ctx, q, uuid.NewString(), senderID, receiverID, content).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.ReadAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepoImpl) Conversation(ctx context.Context, userID, otherUserID string, limit, offset int) ([]domain.ChatMessage, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT id, sender_id, receiver_id, content, read_at, created_at
  FROM messages
  WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
  ORDER BY created_at ASC LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, otherUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := make([]domain.ChatMessage, 0, limit)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func (r *MessageRepoImpl) MarkRead(ctx context.Context, receiverID, senderID string) error {
	const q = `UPDATE messages SET read_at=now()
  WHERE receiver_id=$1 AND sender_id=$2 AND read_at IS NULL`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, receiverID, senderID)
	return err
}

func (r *MessageRepoImpl) RecentHeads(ctx context.Context, userID string, limit int) ([]domain.ConversationHead, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	const q = `SELECT DISTINCT ON (other_id) other_id, u.full_name, m.content, m.created_at,
  (SELECT count(*) FROM messages um
   WHERE um.receiver_id=$1 AND um.sender_id=other_id AND um.read_at IS NULL) AS unread
  FROM (
    SELECT *, CASE WHEN sender_id=$1 THEN receiver_id ELSE sender_id END AS other_id
    FROM messages
    WHERE sender_id=$1 OR receiver_id=$1
  ) m
  JOIN users u ON u.id = m.other_id
  ORDER BY other_id, m.created_at DESC
  LIMIT $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hs := make([]domain.ConversationHead, 0, limit)
	for rows.Next() {
		var h domain.ConversationHead
		if err := rows.Scan(&h.OtherUserID, &h.OtherUserName, &h.LastContent, &h.LastAt, &h.Unread); err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	return hs, rows.Err()
}

var _ MessageRepo = (*MessageRepoImpl)(nil)
