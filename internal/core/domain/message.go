package domain

import "time"

// Message is a short text sent from one registered user to another.
type Message struct {
	ID               string    `json:"id"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverUsername string    `json:"receiver_username"`
	Text             string    `json:"text"`
	CreatedAt        time.Time `json:"created_at"`
}
