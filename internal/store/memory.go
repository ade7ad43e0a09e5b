package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bucketwise/backend/internal/model"
)

// MemoryStore implements the Store interface with in-memory storage. Used
// by tests and local development.
type MemoryStore struct {
	mu sync.RWMutex

	snapshots   map[string]*model.FinancialSnapshot
	plans       map[string]*model.AllocationPlan
	links       map[string]map[model.BucketType]*model.AccountLink
	selections  map[string]map[model.BucketType]*model.PresetSelection
	reviewItems map[string]map[string]*model.ReviewItem
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:   make(map[string]*model.FinancialSnapshot),
		plans:       make(map[string]*model.AllocationPlan),
		links:       make(map[string]map[model.BucketType]*model.AccountLink),
		selections:  make(map[string]map[model.BucketType]*model.PresetSelection),
		reviewItems: make(map[string]map[string]*model.ReviewItem),
	}
}

// paginateIDs applies cursor-based pagination to a sorted slice of IDs.
// Returns the page and the next page token, empty when no more pages.
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	sort.Strings(ids)

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			found := false
			for i, id := range ids {
				if id > cursorID {
					startIdx = i
					found = true
					break
				}
			}
			if !found {
				return nil, ""
			}
		}
	}

	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}

	return ids, nextToken
}

// Snapshot operations

func (m *MemoryStore) SaveSnapshot(ctx context.Context, snapshot *model.FinancialSnapshot) error {
	if snapshot.UserID == "" {
		return fmt.Errorf("snapshot missing user ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (m *MemoryStore) GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[userID]
	if !ok {
		return nil, fmt.Errorf("snapshot for user %s: %w", userID, ErrNotFound)
	}
	return snapshot, nil
}

// Plan operations

func (m *MemoryStore) SavePlan(ctx context.Context, plan *model.AllocationPlan) error {
	if plan.UserID == "" {
		return fmt.Errorf("plan missing user ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans[plan.UserID] = plan
	return nil
}

func (m *MemoryStore) GetPlan(ctx context.Context, userID string) (*model.AllocationPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plan, ok := m.plans[userID]
	if !ok {
		return nil, fmt.Errorf("plan for user %s: %w", userID, ErrNotFound)
	}
	return plan, nil
}

// Account link operations

func (m *MemoryStore) UpsertAccountLink(ctx context.Context, link *model.AccountLink) error {
	if link.UserID == "" || link.BucketType == "" {
		return fmt.Errorf("account link missing user ID or bucket type")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.links[link.UserID] == nil {
		m.links[link.UserID] = make(map[model.BucketType]*model.AccountLink)
	}
	link.UpdatedAt = time.Now()
	m.links[link.UserID][link.BucketType] = link
	return nil
}

func (m *MemoryStore) ListAccountLinks(ctx context.Context, userID string) ([]*model.AccountLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []*model.AccountLink
	for _, link := range m.links[userID] {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].BucketType < links[j].BucketType })
	return links, nil
}

// Preset selection operations

func (m *MemoryStore) SavePresetSelection(ctx context.Context, selection *model.PresetSelection) error {
	if selection.UserID == "" || selection.BucketType == "" {
		return fmt.Errorf("preset selection missing user ID or bucket type")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selections[selection.UserID] == nil {
		m.selections[selection.UserID] = make(map[model.BucketType]*model.PresetSelection)
	}
	selection.UpdatedAt = time.Now()
	m.selections[selection.UserID][selection.BucketType] = selection
	return nil
}

func (m *MemoryStore) ListPresetSelections(ctx context.Context, userID string) ([]*model.PresetSelection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var selections []*model.PresetSelection
	for _, sel := range m.selections[userID] {
		selections = append(selections, sel)
	}
	sort.Slice(selections, func(i, j int) bool { return selections[i].BucketType < selections[j].BucketType })
	return selections, nil
}

// Review item operations

func (m *MemoryStore) SaveReviewItems(ctx context.Context, userID string, items []*model.ReviewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reviewItems[userID] == nil {
		m.reviewItems[userID] = make(map[string]*model.ReviewItem)
	}
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("review item missing ID")
		}
		// Re-running the pipeline must not un-resolve a decided item.
		if existing, ok := m.reviewItems[userID][item.ID]; ok && existing.Resolved {
			continue
		}
		m.reviewItems[userID][item.ID] = item
	}
	return nil
}

func (m *MemoryStore) ListReviewItems(ctx context.Context, userID string, unresolvedOnly bool, pageSize int32, pageToken string) ([]*model.ReviewItem, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byID := m.reviewItems[userID]
	var ids []string
	for id, item := range byID {
		if unresolvedOnly && item.Resolved {
			continue
		}
		ids = append(ids, id)
	}

	pageIDs, nextToken := paginateIDs(ids, pageSize, pageToken)
	items := make([]*model.ReviewItem, 0, len(pageIDs))
	for _, id := range pageIDs {
		items = append(items, byID[id])
	}
	return items, nextToken, nil
}

func (m *MemoryStore) ResolveReviewItem(ctx context.Context, userID, itemID, resolution string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.reviewItems[userID][itemID]
	if !ok {
		return fmt.Errorf("review item %s: %w", itemID, ErrNotFound)
	}
	item.Resolved = true
	item.Resolution = resolution
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
