package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a single note stored in MongoDB. Every note belongs to exactly
// one user; the owner is set at creation and never reassigned.
type Note struct {
	ID             primitive.ObjectID `json:"id"              bson:"_id,omitempty"`
	UserID         string             `json:"userId"          bson:"user_id"`
	Title          string             `json:"title"           bson:"title"`
	Content        string             `json:"content"         bson:"content"`
	Tags           []string           `json:"tags"            bson:"tags"`
	IsPinned       bool               `json:"isPinned"        bson:"is_pinned"`
	AttachmentKey  string             `json:"-"               bson:"attachment_key,omitempty"`
	AttachmentName string             `json:"attachmentName,omitempty" bson:"attachment_name,omitempty"`
	AttachmentType string             `json:"-"               bson:"attachment_type,omitempty"`
	CreatedAt      time.Time          `json:"createdOn"       bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedOn"       bson:"updated_at"`
}

// AddNoteRequest is the JSON body for POST /notes/add-note.
type AddNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// EditNoteRequest is the JSON body for PUT /notes/edit-note/{noteId}.
// Title, content, and tags follow the usual "empty means unchanged" rule.
// IsPinned is a pointer so that an explicit false still counts as an update.
type EditNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPinned *bool    `json:"isPinned"`
}

// PinRequest is the JSON body for PUT /notes/update-note-pin/{noteId}.
type PinRequest struct {
	IsPinned *bool `json:"isPinned"`
}
