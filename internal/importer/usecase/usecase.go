package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/importer"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 30 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type importUseCase struct {
	entries   entry.UseCase
	jobs      importer.JobStore
	locker    importer.Locker
	publisher importer.Publisher
	validate  *validator.Validate
	logger    logger.ZapLogger
}

// NewImportUseCase wires the import flow. publisher may be nil in workers
// that only apply imports.
func NewImportUseCase(entries entry.UseCase, jobs importer.JobStore, locker importer.Locker, publisher importer.Publisher, log logger.ZapLogger) importer.UseCase {
	return &importUseCase{
		entries:   entries,
		jobs:      jobs,
		locker:    locker,
		publisher: publisher,
		validate:  validator.New(),
		logger:    log,
	}
}

func (uc *importUseCase) RequestImport(ctx context.Context, menuID int64, doc *importer.Document) (*importer.Job, error) {
	if menuID <= 0 {
		return nil, entry.ErrInvalidMenuID
	}
	if doc == nil {
		return nil, importer.ErrInvalidDocument
	}
	if err := uc.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", importer.ErrInvalidDocument, err)
	}
	if uc.publisher == nil {
		return nil, errors.New("import publisher is not configured")
	}

	now := time.Now().UTC()
	job := &importer.Job{
		ID:        uuid.New().String(),
		MenuID:    menuID,
		Status:    importer.JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(importer.RequestedEvent{
		EventType: importer.EventImportRequested,
		JobID:     job.ID,
		MenuID:    menuID,
		Document:  *doc,
		Timestamp: now,
	})
	if err != nil {
		return nil, err
	}

	// Keyed by menu so imports of one menu are consumed in request order.
	if err := uc.publisher.Publish(ctx, strconv.FormatInt(menuID, 10), payload); err != nil {
		uc.fail(ctx, job, fmt.Errorf("publish import request: %w", err))
		return nil, fmt.Errorf("publish import request: %w", err)
	}

	uc.logger.Info("menu import queued", zap.String("job_id", job.ID), zap.Int64("menu_id", menuID))
	return job, nil
}

func (uc *importUseCase) GetJob(ctx context.Context, jobID string) (*importer.Job, error) {
	if jobID == "" {
		return nil, importer.ErrJobNotFound
	}
	return uc.jobs.Get(ctx, jobID)
}

func (uc *importUseCase) Run(ctx context.Context, event *importer.RequestedEvent) error {
	job, err := uc.jobs.Get(ctx, event.JobID)
	if errors.Is(err, importer.ErrJobNotFound) {
		// Status expired or was never stored; still apply the request.
		job = &importer.Job{ID: event.JobID, MenuID: event.MenuID, CreatedAt: time.Now().UTC()}
	} else if err != nil {
		return err
	}
	if job.Status == importer.JobCompleted {
		uc.logger.Info("menu import already completed, skipping", zap.String("job_id", job.ID))
		return nil
	}
	// Entries from a partial run are already in the menu; applying the
	// document again would duplicate them.
	if job.Status == importer.JobFailed && job.CreatedCount > 0 {
		uc.logger.Warn("menu import failed after partial apply, skipping",
			zap.String("job_id", job.ID),
			zap.Int("created", job.CreatedCount),
		)
		return nil
	}

	lockKey := fmt.Sprintf("lock:menu-import:%d", event.MenuID)
	lockValue := uuid.New().String()
	if err := uc.acquire(ctx, lockKey, lockValue); err != nil {
		uc.fail(ctx, job, err)
		return err
	}
	defer uc.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey, lockValue)

	job.Status = importer.JobRunning
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()
	if err := uc.jobs.Save(ctx, job); err != nil {
		return err
	}

	created, err := uc.createNodes(ctx, event.MenuID, nil, event.Document.Entries)
	job.CreatedCount = created
	if err != nil {
		uc.fail(ctx, job, err)
		return err
	}

	job.Status = importer.JobCompleted
	job.UpdatedAt = time.Now().UTC()
	if err := uc.jobs.Save(ctx, job); err != nil {
		return err
	}

	uc.logger.Info("menu import completed",
		zap.String("job_id", job.ID),
		zap.Int64("menu_id", event.MenuID),
		zap.Int("created", created),
	)
	return nil
}

func (uc *importUseCase) acquire(ctx context.Context, key, value string) error {
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire import lock", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return nil
		}
		if i < lockAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockBackoff):
			}
		}
	}
	return importer.ErrImportInProgress
}

// createNodes creates nodes depth first in document order and returns how
// many entries were created, including on failure.
func (uc *importUseCase) createNodes(ctx context.Context, menuID int64, parentID *int64, nodes []importer.Node) (int, error) {
	created := 0
	for i, node := range nodes {
		order := node.Order
		if order == 0 {
			order = i + 1
		}

		tags := make([]dto.TagInput, 0, len(node.Tags))
		for _, t := range node.Tags {
			tags = append(tags, dto.TagInput{Name: t.Name, Type: t.Type})
		}

		e, err := uc.entries.CreateEntry(ctx, &dto.CreateEntryInput{
			MenuID:      menuID,
			ParentID:    parentID,
			Name:        node.Name,
			Description: node.Description,
			Price:       node.Price,
			Properties:  node.Properties,
			PhotoPath:   node.PhotoPath,
			IsAvailable: node.IsAvailable,
			SortOrder:   order,
			Tags:        tags,
		})
		if err != nil {
			return created, fmt.Errorf("create %q: %w", node.Name, err)
		}
		created++

		n, err := uc.createNodes(ctx, menuID, &e.ID, node.Children)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func (uc *importUseCase) fail(ctx context.Context, job *importer.Job, cause error) {
	job.Status = importer.JobFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	if err := uc.jobs.Save(context.WithoutCancel(ctx), job); err != nil {
		uc.logger.Error("failed to record import failure", zap.String("job_id", job.ID), zap.Error(err))
	}
	uc.logger.Warn("menu import failed", zap.String("job_id", job.ID), zap.Int64("menu_id", job.MenuID), zap.Error(cause))
}
