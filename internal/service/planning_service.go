// Package service orchestrates the planning pipeline: snapshot refresh,
// plan generation, edits and the review queue, on top of the store.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bucketwise/backend/internal/allocation"
	"github.com/bucketwise/backend/internal/explain"
	"github.com/bucketwise/backend/internal/model"
	"github.com/bucketwise/backend/internal/snapshot"
	"github.com/bucketwise/backend/internal/store"
)

// Review item resolutions accepted by ResolveReviewItem.
const (
	ResolutionInternal = model.ResolutionInternal
	ResolutionExternal = model.ResolutionExternal
)

// PlanningService implements the planning API.
type PlanningService struct {
	store     store.Store
	planner   *allocation.Planner
	cfg       allocation.Config
	explainer explain.Generator
	log       zerolog.Logger
	now       func() time.Time

	// Edits and preset selections for one user are serialized; concurrent
	// writers would race on the read-rebalance-write cycle.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// Option configures a PlanningService.
type Option func(*PlanningService)

// WithExplainer sets the explanation generator. Without one, plans carry
// empty explanation text.
func WithExplainer(g explain.Generator) Option {
	return func(s *PlanningService) { s.explainer = g }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *PlanningService) { s.log = log }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *PlanningService) { s.now = now }
}

// NewPlanningService creates a planning service over the given store.
func NewPlanningService(st store.Store, cfg allocation.Config, opts ...Option) *PlanningService {
	s := &PlanningService{
		store:     st,
		planner:   allocation.NewPlanner(cfg),
		cfg:       cfg,
		explainer: explain.Noop{},
		log:       zerolog.Nop(),
		now:       time.Now,
		userLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PlanningService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// RefreshSnapshot runs the full classification and aggregation pipeline
// over provider data and persists the result. Prior review resolutions are
// loaded first so a confirmed transaction is classified per the user's
// decision instead of being flagged again. Identical inputs produce an
// identical snapshot and review set, so re-runs are safe.
func (s *PlanningService) RefreshSnapshot(ctx context.Context, userID string, txns []model.Transaction, accounts []model.Account) (*model.FinancialSnapshot, []*model.ReviewItem, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("user ID is required")
	}

	resolutions, err := s.loadResolutions(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load review resolutions: %w", err)
	}

	snap, reviews := snapshot.Build(userID, txns, accounts, resolutions, s.now())

	if err := s.store.SaveSnapshot(ctx, &snap); err != nil {
		return nil, nil, fmt.Errorf("save snapshot: %w", err)
	}
	items := make([]*model.ReviewItem, len(reviews))
	for i := range reviews {
		items[i] = &reviews[i]
	}
	if err := s.store.SaveReviewItems(ctx, userID, items); err != nil {
		return nil, nil, fmt.Errorf("save review items: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Int("transactions", snap.Metadata.TransactionsAnalyzed).
		Int("review_items", len(items)).
		Float64("confidence", snap.Metadata.OverallConfidence).
		Msg("snapshot refreshed")
	return &snap, items, nil
}

// loadResolutions collects the user's resolved review decisions keyed by
// transaction ID, paging through the stored queue.
func (s *PlanningService) loadResolutions(ctx context.Context, userID string) (map[string]string, error) {
	resolutions := make(map[string]string)
	pageToken := ""
	for {
		items, next, err := s.store.ListReviewItems(ctx, userID, false, 100, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.Resolved {
				resolutions[item.TransactionID] = item.Resolution
			}
		}
		if next == "" {
			return resolutions, nil
		}
		pageToken = next
	}
}

// GetSnapshot returns the stored snapshot for a user.
func (s *PlanningService) GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error) {
	return s.store.GetSnapshot(ctx, userID)
}

// GeneratePlan builds a fresh plan from the stored snapshot. Account links
// and preset-tier selections persisted earlier are re-associated by bucket
// type, so regenerating never loses them. Explanations are best effort: a
// generator failure is logged and the plan ships without text.
func (s *PlanningService) GeneratePlan(ctx context.Context, userID string, stability model.IncomeStability) (*model.AllocationPlan, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.store.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	plan, err := s.planner.Generate(*snap, stability)
	if err != nil {
		return nil, err
	}
	now := s.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if err := s.reassociate(ctx, userID, plan); err != nil {
		return nil, err
	}
	s.attachExplanations(ctx, plan)

	if err := s.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("stability", string(stability)).
		Int("buckets", len(plan.Buckets)).
		Msg("plan generated")
	return plan, nil
}

// reassociate restores persisted account links and preset selections onto a
// freshly generated plan.
func (s *PlanningService) reassociate(ctx context.Context, userID string, plan *model.AllocationPlan) error {
	links, err := s.store.ListAccountLinks(ctx, userID)
	if err != nil {
		return fmt.Errorf("list account links: %w", err)
	}
	for _, link := range links {
		if b := plan.BucketByType(link.BucketType); b != nil {
			b.LinkedAccountIDs = link.AccountIDs
		}
	}

	selections, err := s.store.ListPresetSelections(ctx, userID)
	if err != nil {
		return fmt.Errorf("list preset selections: %w", err)
	}
	for _, sel := range selections {
		b := plan.BucketByType(sel.BucketType)
		if b == nil || !b.IsModifiable || b.PresetOptions == nil {
			continue
		}
		result, err := allocation.ApplyEdit(plan, b.ID, b.PresetOptions.Amount(sel.Tier))
		if err != nil {
			return fmt.Errorf("apply preset %s/%s: %w", sel.BucketType, sel.Tier, err)
		}
		*plan = *result.Plan
		if edited := plan.Bucket(b.ID); edited != nil {
			edited.SelectedTier = sel.Tier
		}
	}
	return nil
}

func (s *PlanningService) attachExplanations(ctx context.Context, plan *model.AllocationPlan) {
	texts, err := s.explainer.Explain(ctx, explain.FactsFromPlan(plan))
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", plan.UserID).Msg("explanation generation failed")
		return
	}
	for _, b := range plan.Buckets {
		b.Explanation = texts[b.Type]
	}
}

// GetPlan returns the stored plan for a user.
func (s *PlanningService) GetPlan(ctx context.Context, userID string) (*model.AllocationPlan, error) {
	return s.store.GetPlan(ctx, userID)
}

// ApplyEdit sets one bucket to a new amount, rebalances the rest and
// persists the result. Edits for the same user are serialized.
func (s *PlanningService) ApplyEdit(ctx context.Context, userID, bucketID string, newAmount float64) (allocation.EditResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.store.GetPlan(ctx, userID)
	if err != nil {
		return allocation.EditResult{}, fmt.Errorf("load plan: %w", err)
	}

	result, err := allocation.ApplyEdit(plan, bucketID, newAmount)
	if err != nil {
		return allocation.EditResult{}, err
	}
	result.Plan.UpdatedAt = s.now()

	if err := s.store.SavePlan(ctx, result.Plan); err != nil {
		return allocation.EditResult{}, fmt.Errorf("save plan: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("bucket_id", bucketID).
		Float64("requested", result.RequestedAmount).
		Float64("applied", result.AppliedAmount).
		Bool("clamped", result.Clamped).
		Msg("bucket edited")
	return result, nil
}

// SelectPreset applies a preset tier's amount to the bucket of the given
// type through the normal rebalancing path and persists the selection so
// it survives plan regeneration.
func (s *PlanningService) SelectPreset(ctx context.Context, userID string, bucketType model.BucketType, tier model.PresetTier) (allocation.EditResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.store.GetPlan(ctx, userID)
	if err != nil {
		return allocation.EditResult{}, fmt.Errorf("load plan: %w", err)
	}

	bucket := plan.BucketByType(bucketType)
	if bucket == nil {
		return allocation.EditResult{}, fmt.Errorf("%w: %s", allocation.ErrBucketNotFound, bucketType)
	}
	if bucket.PresetOptions == nil {
		return allocation.EditResult{}, fmt.Errorf("bucket %s has no presets", bucketType)
	}

	result, err := allocation.ApplyEdit(plan, bucket.ID, bucket.PresetOptions.Amount(tier))
	if err != nil {
		return allocation.EditResult{}, err
	}
	if edited := result.Plan.Bucket(bucket.ID); edited != nil {
		edited.SelectedTier = tier
	}
	result.Plan.UpdatedAt = s.now()

	if err := s.store.SavePlan(ctx, result.Plan); err != nil {
		return allocation.EditResult{}, fmt.Errorf("save plan: %w", err)
	}
	if err := s.store.SavePresetSelection(ctx, &model.PresetSelection{
		UserID:     userID,
		BucketType: bucketType,
		Tier:       tier,
	}); err != nil {
		return allocation.EditResult{}, fmt.Errorf("save preset selection: %w", err)
	}
	return result, nil
}

// SetAccountLinks associates bank accounts with a bucket type for display
// aggregation. Links never affect allocation math.
func (s *PlanningService) SetAccountLinks(ctx context.Context, userID string, bucketType model.BucketType, accountIDs []string) error {
	if err := s.store.UpsertAccountLink(ctx, &model.AccountLink{
		UserID:     userID,
		BucketType: bucketType,
		AccountIDs: accountIDs,
	}); err != nil {
		return fmt.Errorf("upsert account link: %w", err)
	}

	// Keep the stored plan's display fields in sync when one exists.
	plan, err := s.store.GetPlan(ctx, userID)
	if err != nil {
		return nil
	}
	if b := plan.BucketByType(bucketType); b != nil {
		b.LinkedAccountIDs = accountIDs
		if err := s.store.SavePlan(ctx, plan); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
	}
	return nil
}

// LinkedBalances sums current balances of the linked accounts per bucket
// type. Callers pass fresh provider account data; balances are not stored.
func (s *PlanningService) LinkedBalances(ctx context.Context, userID string, accounts []model.Account) (map[model.BucketType]float64, error) {
	links, err := s.store.ListAccountLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list account links: %w", err)
	}

	balances := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		balances[a.ID] = a.CurrentBalance
	}

	out := make(map[model.BucketType]float64, len(links))
	for _, link := range links {
		var total float64
		for _, id := range link.AccountIDs {
			total += balances[id]
		}
		out[link.BucketType] = total
	}
	return out, nil
}

// ListReviewItems pages through the user's ambiguous-transfer queue.
func (s *PlanningService) ListReviewItems(ctx context.Context, userID string, unresolvedOnly bool, pageSize int32, pageToken string) ([]*model.ReviewItem, string, error) {
	return s.store.ListReviewItems(ctx, userID, unresolvedOnly, pageSize, pageToken)
}

// ResolveReviewItem records the user's internal-vs-external decision for an
// ambiguous transaction. The snapshot is not rebuilt here; the caller
// refreshes when it wants the decision reflected.
func (s *PlanningService) ResolveReviewItem(ctx context.Context, userID, itemID, resolution string) error {
	if resolution != ResolutionInternal && resolution != ResolutionExternal {
		return fmt.Errorf("invalid resolution %q", resolution)
	}
	return s.store.ResolveReviewItem(ctx, userID, itemID, resolution)
}

// GetWarnings runs the budget-health checks over the stored plan.
func (s *PlanningService) GetWarnings(ctx context.Context, userID string) ([]model.Warning, error) {
	plan, err := s.store.GetPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return allocation.Advise(s.cfg, plan), nil
}
