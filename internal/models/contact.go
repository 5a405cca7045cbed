package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactStatus string

const (
	ContactUnread  ContactStatus = "unread"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// ValidContactStatus reports whether s is one of the three known states.
func ValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactUnread, ContactRead, ContactReplied:
		return true
	}
	return false
}

type ContactMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Message   string             `json:"message" bson:"message"`
	Status    ContactStatus      `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
