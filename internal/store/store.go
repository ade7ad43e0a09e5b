// Package store persists snapshots, plans and their user-owned trimmings.
package store

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/bucketwise/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations used by the planning service.
// Snapshots and plans are replaced whole per user; account links and preset
// selections are keyed by bucket type so they survive plan regeneration.
type Store interface {
	// Snapshot operations
	SaveSnapshot(ctx context.Context, snapshot *model.FinancialSnapshot) error
	GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error)

	// Plan operations
	SavePlan(ctx context.Context, plan *model.AllocationPlan) error
	GetPlan(ctx context.Context, userID string) (*model.AllocationPlan, error)

	// Account link operations
	UpsertAccountLink(ctx context.Context, link *model.AccountLink) error
	ListAccountLinks(ctx context.Context, userID string) ([]*model.AccountLink, error)

	// Preset selection operations
	SavePresetSelection(ctx context.Context, selection *model.PresetSelection) error
	ListPresetSelections(ctx context.Context, userID string) ([]*model.PresetSelection, error)

	// Review item operations. SaveReviewItems upserts by item ID so a
	// pipeline re-run never duplicates or un-resolves existing items.
	SaveReviewItems(ctx context.Context, userID string, items []*model.ReviewItem) error
	ListReviewItems(ctx context.Context, userID string, unresolvedOnly bool, pageSize int32, pageToken string) ([]*model.ReviewItem, string, error)
	ResolveReviewItem(ctx context.Context, userID, itemID, resolution string) error

	Close() error
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
