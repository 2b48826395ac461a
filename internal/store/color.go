package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/types"
)

// ColorRepository handles persistence for color records.
type ColorRepository struct {
	kv  db.Store
	now func() time.Time
}

func NewColorRepository(kv db.Store) *ColorRepository {
	return &ColorRepository{kv: kv, now: time.Now}
}

// Create mints a record ID from the store counter and stores the record.
// Author and CreatedAt are always set here, never taken from the client.
func (r *ColorRepository) Create(ctx context.Context, author string, input types.ColorInput) (types.ColorRecord, error) {
	id, err := r.kv.Incr(ctx, colorSequenceKey)
	if err != nil {
		return types.ColorRecord{}, fmt.Errorf("mint color id: %w", err)
	}

	record := types.ColorRecord{
		ID:        id,
		Author:    author,
		Color:     input.Color,
		Comment:   input.Comment,
		CreatedAt: r.now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return types.ColorRecord{}, err
	}

	created, err := r.kv.PutIfAbsent(ctx, colorKey(id), data)
	if err != nil {
		return types.ColorRecord{}, fmt.Errorf("create color: %w", err)
	}
	if !created {
		// The counter handed out an ID that is already stored; the counter
		// key was reset or written outside this repository.
		return types.ColorRecord{}, fmt.Errorf("color id %d: %w", id, ErrAlreadyExists)
	}
	return record, nil
}

func (r *ColorRepository) Get(ctx context.Context, id int64) (types.ColorRecord, error) {
	data, err := r.kv.Get(ctx, colorKey(id))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return types.ColorRecord{}, ErrNotFound
		}
		return types.ColorRecord{}, fmt.Errorf("get color: %w", err)
	}

	var record types.ColorRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.ColorRecord{}, fmt.Errorf("decode color: %w", err)
	}
	return record, nil
}

// Exists reports whether a record with the given ID is stored.
func (r *ColorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if _, err := r.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns every record, newest first.
func (r *ColorRepository) List(ctx context.Context) ([]types.ColorRecord, error) {
	entries, err := r.kv.Scan(ctx, colorPrefix)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}

	records := make([]types.ColorRecord, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		var record types.ColorRecord
		if err := json.Unmarshal(entries[i].Value, &record); err != nil {
			return nil, fmt.Errorf("decode color %s: %w", entries[i].Key, err)
		}
		records = append(records, record)
	}
	return records, nil
}
