// Package importer creates whole menu trees from JSON documents. Requests are
// queued on Kafka and applied by a worker; progress is tracked in Redis.
package importer

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

const EventImportRequested = "MenuImportRequested"

var (
	ErrJobNotFound      = errors.New("import job not found")
	ErrInvalidDocument  = errors.New("invalid import document")
	ErrImportInProgress = errors.New("another import of this menu is in progress")
)

type Document struct {
	Entries []Node `json:"entries" validate:"required,min=1,dive"`
}

// Node is one entry of an import document. Children nest to any depth.
type Node struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price" validate:"omitempty,gte=0"`
	Properties  model.Properties `json:"properties"`
	PhotoPath   *string          `json:"photo_path" validate:"omitempty,max=512"`
	IsAvailable *bool            `json:"is_available"` // Defaults to true
	Order       int              `json:"order"`        // Zero means position in the list, starting at 1
	Tags        []TagNode        `json:"tags" validate:"dive"`
	Children    []Node           `json:"children" validate:"dive"`
}

type TagNode struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"max=50"`
}

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

type Job struct {
	ID           string    `json:"id"`
	MenuID       int64     `json:"menu_id"`
	Status       JobStatus `json:"status"`
	CreatedCount int       `json:"created_count"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RequestedEvent is the Kafka message asking a worker to run an import.
type RequestedEvent struct {
	EventType string    `json:"event_type"`
	JobID     string    `json:"job_id"`
	MenuID    int64     `json:"menu_id"`
	Document  Document  `json:"document"`
	Timestamp time.Time `json:"timestamp"`
}

type UseCase interface {
	RequestImport(ctx context.Context, menuID int64, doc *Document) (*Job, error)
	GetJob(ctx context.Context, jobID string) (*Job, error)
	// Run applies a requested import. Failures are recorded on the job.
	Run(ctx context.Context, event *RequestedEvent) error
}

type JobStore interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, jobID string) (*Job, error)
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}
