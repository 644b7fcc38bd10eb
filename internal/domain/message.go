package domain

import "time"

type ChatMessage struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ChatSendReq struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// ConversationHead is the most recent message exchanged with one other user,
// for the recent-conversations list.
type ConversationHead struct {
	OtherUserID   string    `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name"`
	LastContent   string    `json:"last_content"`
	LastAt        time.Time `json:"last_at"`
	Unread        int       `json:"unread"`
}
