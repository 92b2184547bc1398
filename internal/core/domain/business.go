package domain

import (
	"errors"
	"time"
)

var ErrBusinessNotFound = errors.New("business not found")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("not authenticated")

// Tag types a business can be labelled with.
const (
	TagLocation = "LOCATION"
	TagArea     = "AREA"
	TagField    = "FIELD"
)

// Tag is a classification label attached to a business.
type Tag struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Type      string    `json:"type" bson:"type"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Business is a directory listing owned by a user. ContactInfo and Links are
// free-form JSON bags; Photos keeps insertion order.
type Business struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OwnerID     string         `json:"owner_id"`
	ContactInfo map[string]any `json:"contact_info"`
	Links       map[string]any `json:"links"`
	Photos      []string       `json:"photos"`
	Tags        []Tag          `json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
