package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/colorboard/apiserver/internal/storage"
	"github.com/colorboard/apiserver/types"
)

const snapshotPrefix = "snapshots/colors-"

// RecordLister lists color records newest first.
type RecordLister interface {
	List(ctx context.Context) ([]types.ColorRecord, error)
}

// SnapshotStorage is satisfied by *storage.Storage.
type SnapshotStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// ExportService writes snapshots of every color record to object storage.
type ExportService struct {
	colors    RecordLister
	snapshots SnapshotStorage
	now       func() time.Time
}

func NewExportService(colors RecordLister, snapshots SnapshotStorage) *ExportService {
	return &ExportService{colors: colors, snapshots: snapshots, now: time.Now}
}

// Snapshot uploads all records as a JSON array and returns the object key
// and the number of records written.
func (s *ExportService) Snapshot(ctx context.Context) (string, int, error) {
	if s.snapshots == nil {
		return "", 0, errors.New("snapshot storage is not configured")
	}

	records, err := s.colors.List(ctx)
	if err != nil {
		return "", 0, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", 0, fmt.Errorf("encode snapshot: %w", err)
	}

	key := snapshotPrefix + s.now().UTC().Format("20060102T150405Z") + ".json"
	if err := s.snapshots.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return "", 0, fmt.Errorf("upload snapshot: %w", err)
	}
	return key, len(records), nil
}

// Snapshots lists stored snapshot keys, oldest first.
func (s *ExportService) Snapshots(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.snapshots == nil {
		return nil, errors.New("snapshot storage is not configured")
	}
	return s.snapshots.List(ctx, snapshotPrefix)
}

// Prune deletes all but the newest keep snapshots and returns the deleted keys.
// Snapshot keys embed a sortable UTC timestamp, so key order is age order.
func (s *ExportService) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("%w: keep must be at least 1", ErrInvalidInput)
	}

	objects, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(objects) <= keep {
		return nil, nil
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	stale := objects[:len(objects)-keep]
	deleted := make([]string, 0, len(stale))
	for _, object := range stale {
		if err := s.snapshots.Delete(ctx, object.Key); err != nil {
			return deleted, fmt.Errorf("delete snapshot %s: %w", object.Key, err)
		}
		deleted = append(deleted, object.Key)
	}
	return deleted, nil
}
