package model

import "time"

// Message is one direct message between two connected users.
type Message struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID   string    `json:"sender_id" bson:"sender_id" validate:"required"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id" validate:"required"`
	Content    string    `json:"content" bson:"content" validate:"required,min=1,max=4000"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Conversation is the upserted thread summary for one user pair. Its _id is
// the pair key, so sending a message is a single upsert.
type Conversation struct {
	ID            string    `json:"id" bson:"_id"`
	Participants  [2]string `json:"participants" bson:"participants"`
	LastMessageID string    `json:"last_message_id" bson:"last_message_id"`
	LastContent   string    `json:"last_content" bson:"last_content"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}
