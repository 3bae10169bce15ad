package editor

import "time"

// DocStatus is the lifecycle state of a document. Transitions happen only
// through the docs service; handlers and repositories never change it
// directly.
type DocStatus string

const (
	StatusDraft      DocStatus = "draft"
	StatusInReview   DocStatus = "in_review"
	StatusPublished  DocStatus = "published"
	StatusDeprecated DocStatus = "deprecated"
)

// APIStatus describes the maturity of the API a document covers. It is
// emitted as the `status` frontmatter field.
type APIStatus string

const (
	APIStable     APIStatus = "stable"
	APIBeta       APIStatus = "beta"
	APIDeprecated APIStatus = "deprecated"
)

// DocumentMetadata carries everything about a document except its content.
// ID is immutable once assigned. (Category, Slug) is unique across the
// corpus, and at most one document may have IsDefault set.
type DocumentMetadata struct {
	ID           string    `json:"id" bson:"id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Slug         string    `json:"slug" bson:"slug"`
	Category     string    `json:"category" bson:"category"`
	Status       DocStatus `json:"status" bson:"status"`
	APIStatus    APIStatus `json:"apiStatus" bson:"apiStatus"`
	Version      string    `json:"version" bson:"version"`
	Order        int       `json:"order" bson:"order"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	CreatedBy    string    `json:"createdBy" bson:"createdBy"`
	LastEditedBy string    `json:"lastEditedBy" bson:"lastEditedBy"`
	IsDefault    bool      `json:"isDefault" bson:"isDefault"`
}

// Document is the full editor document: metadata plus content blocks in
// reading order.
type Document struct {
	Metadata DocumentMetadata `json:"metadata" bson:"metadata"`
	Blocks   []Block          `json:"blocks" bson:"blocks"`
}
