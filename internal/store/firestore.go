package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bucketwise/backend/internal/model"
)

// Firestore collection names. Per-user documents (links, selections,
// review items) live in subcollections under users/{userID}.
const (
	snapshotsCollection  = "snapshots"
	plansCollection      = "plans"
	usersCollection      = "users"
	linksSubcollection   = "accountLinks"
	presetsSubcollection = "presetSelections"
	reviewSubcollection  = "reviewItems"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

func notFoundErr(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Snapshot operations

func (s *FirestoreStore) SaveSnapshot(ctx context.Context, snapshot *model.FinancialSnapshot) error {
	if snapshot.UserID == "" {
		return fmt.Errorf("snapshot missing user ID")
	}
	_, err := s.client.Collection(snapshotsCollection).Doc(snapshot.UserID).Set(ctx, snapshot)
	return err
}

func (s *FirestoreStore) GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error) {
	doc, err := s.client.Collection(snapshotsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if notFoundErr(err) {
			return nil, fmt.Errorf("snapshot for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	var snapshot model.FinancialSnapshot
	if err := doc.DataTo(&snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snapshot, nil
}

// Plan operations

func (s *FirestoreStore) SavePlan(ctx context.Context, plan *model.AllocationPlan) error {
	if plan.UserID == "" {
		return fmt.Errorf("plan missing user ID")
	}
	_, err := s.client.Collection(plansCollection).Doc(plan.UserID).Set(ctx, plan)
	return err
}

func (s *FirestoreStore) GetPlan(ctx context.Context, userID string) (*model.AllocationPlan, error) {
	doc, err := s.client.Collection(plansCollection).Doc(userID).Get(ctx)
	if err != nil {
		if notFoundErr(err) {
			return nil, fmt.Errorf("plan for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	var plan model.AllocationPlan
	if err := doc.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &plan, nil
}

// Account link operations

func (s *FirestoreStore) linkDoc(userID string, bucketType model.BucketType) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(linksSubcollection).Doc(string(bucketType))
}

func (s *FirestoreStore) UpsertAccountLink(ctx context.Context, link *model.AccountLink) error {
	if link.UserID == "" || link.BucketType == "" {
		return fmt.Errorf("account link missing user ID or bucket type")
	}
	_, err := s.linkDoc(link.UserID, link.BucketType).Set(ctx, link)
	return err
}

func (s *FirestoreStore) ListAccountLinks(ctx context.Context, userID string) ([]*model.AccountLink, error) {
	docs, err := s.client.Collection(usersCollection).Doc(userID).Collection(linksSubcollection).
		OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list account links: %w", err)
	}
	links := make([]*model.AccountLink, 0, len(docs))
	for _, doc := range docs {
		var link model.AccountLink
		if err := doc.DataTo(&link); err != nil {
			return nil, fmt.Errorf("parse account link: %w", err)
		}
		links = append(links, &link)
	}
	return links, nil
}

// Preset selection operations

func (s *FirestoreStore) SavePresetSelection(ctx context.Context, selection *model.PresetSelection) error {
	if selection.UserID == "" || selection.BucketType == "" {
		return fmt.Errorf("preset selection missing user ID or bucket type")
	}
	_, err := s.client.Collection(usersCollection).Doc(selection.UserID).
		Collection(presetsSubcollection).Doc(string(selection.BucketType)).Set(ctx, selection)
	return err
}

func (s *FirestoreStore) ListPresetSelections(ctx context.Context, userID string) ([]*model.PresetSelection, error) {
	docs, err := s.client.Collection(usersCollection).Doc(userID).Collection(presetsSubcollection).
		OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list preset selections: %w", err)
	}
	selections := make([]*model.PresetSelection, 0, len(docs))
	for _, doc := range docs {
		var sel model.PresetSelection
		if err := doc.DataTo(&sel); err != nil {
			return nil, fmt.Errorf("parse preset selection: %w", err)
		}
		selections = append(selections, &sel)
	}
	return selections, nil
}

// Review item operations

func (s *FirestoreStore) reviewCollection(userID string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(reviewSubcollection)
}

func (s *FirestoreStore) SaveReviewItems(ctx context.Context, userID string, items []*model.ReviewItem) error {
	col := s.reviewCollection(userID)
	bw := s.client.BulkWriter(ctx)
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("review item missing ID")
		}
		// A re-run must not un-resolve a decided item; item IDs are
		// deterministic so an existing resolved doc means the same
		// transaction was already reviewed.
		doc, err := col.Doc(item.ID).Get(ctx)
		if err == nil {
			var existing model.ReviewItem
			if derr := doc.DataTo(&existing); derr == nil && existing.Resolved {
				continue
			}
		} else if !notFoundErr(err) {
			return fmt.Errorf("check review item %s: %w", item.ID, err)
		}
		if _, err := bw.Set(col.Doc(item.ID), item); err != nil {
			return fmt.Errorf("queue review item %s: %w", item.ID, err)
		}
	}
	bw.End()
	return nil
}

func (s *FirestoreStore) ListReviewItems(ctx context.Context, userID string, unresolvedOnly bool, pageSize int32, pageToken string) ([]*model.ReviewItem, string, error) {
	query := s.reviewCollection(userID).Query
	if unresolvedOnly {
		query = query.Where("Resolved", "==", false)
	}
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	// One extra doc detects whether a next page exists.
	docs, err := query.Limit(int(pageSize) + 1).Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("list review items: %w", err)
	}

	var nextToken string
	if int32(len(docs)) > pageSize {
		docs = docs[:pageSize]
		nextToken = EncodePageToken(docs[len(docs)-1].Ref.ID)
	}

	items := make([]*model.ReviewItem, 0, len(docs))
	for _, doc := range docs {
		var item model.ReviewItem
		if err := doc.DataTo(&item); err != nil {
			return nil, "", fmt.Errorf("parse review item: %w", err)
		}
		items = append(items, &item)
	}
	return items, nextToken, nil
}

func (s *FirestoreStore) ResolveReviewItem(ctx context.Context, userID, itemID, resolution string) error {
	ref := s.reviewCollection(userID).Doc(itemID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "Resolved", Value: true},
		{Path: "Resolution", Value: resolution},
	})
	if err != nil {
		if notFoundErr(err) {
			return fmt.Errorf("review item %s: %w", itemID, ErrNotFound)
		}
		return fmt.Errorf("resolve review item: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
