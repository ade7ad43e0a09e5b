package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bucketwise/backend/internal/allocation"
	"github.com/bucketwise/backend/internal/explain"
	"github.com/bucketwise/backend/internal/model"
	"github.com/bucketwise/backend/internal/store"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return testNow.AddDate(0, 0, offset) }

func ptr(v float64) *float64 { return &v }

// fixtureData is a provider feed that yields a plan-ready snapshot:
// 5000 income, 2200 essential, 50 debt minimums, 2000 credit card debt.
func fixtureData() ([]model.Transaction, []model.Account) {
	txns := []model.Transaction{
		{ID: "t1", AccountID: "chk", Amount: -5000, Date: day(-20), MerchantName: "ACME CORP PAYROLL", CategoryLabels: []string{"Payroll"}},
		{ID: "t2", AccountID: "chk", Amount: 1800, Date: day(-18), MerchantName: "OAKWOOD APARTMENTS", CategoryLabels: []string{"Rent"}},
		{ID: "t3", AccountID: "chk", Amount: 400, Date: day(-10), MerchantName: "SAFEWAY", CategoryLabels: []string{"Groceries"}},
		{ID: "t4", AccountID: "chk", Amount: 500, Date: day(-5), MerchantName: "VANGUARD 401K CONTRIBUTION"},
	}
	accounts := []model.Account{
		{ID: "chk", Type: model.AccountTypeDepository, Subtype: "checking", CurrentBalance: 8000},
		{ID: "cc", Type: model.AccountTypeCredit, Subtype: "credit card", CurrentBalance: -2000, MinimumPayment: ptr(50), APR: ptr(0.24)},
	}
	return txns, accounts
}

// stubExplainer returns a fixed explanation per bucket type.
type stubExplainer struct {
	texts map[model.BucketType]string
	err   error
	calls int
}

func (s *stubExplainer) Explain(ctx context.Context, facts explain.PlanFacts) (map[model.BucketType]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.texts, nil
}

func newTestService(t *testing.T, opts ...Option) *PlanningService {
	t.Helper()
	base := []Option{WithClock(func() time.Time { return testNow })}
	return NewPlanningService(store.NewMemoryStore(), allocation.DefaultConfig(), append(base, opts...)...)
}

func TestRefreshSnapshotPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	snap, items, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.InDelta(t, 5000, snap.MonthlyFlow.Income, 0.001)

	stored, err := svc.GetSnapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, stored.ID)
}

func TestRefreshSnapshotIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	first, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	second, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRefreshSnapshotRequiresUserID(t *testing.T) {
	svc := newTestService(t)
	_, _, err := svc.RefreshSnapshot(context.Background(), "", nil, nil)
	assert.Error(t, err)
}

func TestGeneratePlanPersistsAndSums(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	snap, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)

	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.True(t, plan.CheckSum())
	assert.Equal(t, testNow, plan.CreatedAt)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, snap.ID, plan.SnapshotID)
	// 2000 of credit card debt clears the debt-bucket threshold.
	assert.NotNil(t, plan.BucketByType(model.BucketTypeDebtPaydown))

	stored, err := svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, stored.ID)
}

func TestGeneratePlanWithoutSnapshot(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GeneratePlan(context.Background(), "u1", model.IncomeStabilityStable)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGeneratePlanRefusesInvalidSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Essentials exceed income: no disposable income to allocate.
	txns := []model.Transaction{
		{ID: "t1", Amount: -1000, Date: day(-10), MerchantName: "PAYROLL", CategoryLabels: []string{"Payroll"}},
		{ID: "t2", Amount: 2500, Date: day(-9), MerchantName: "OAKWOOD APARTMENTS", CategoryLabels: []string{"Rent"}},
	}
	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, nil)
	require.NoError(t, err)

	_, err = svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	var verr *allocation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.InvalidReasonNoDisposableIncome, verr.Reason)
}

func TestGeneratePlanAttachesExplanations(t *testing.T) {
	stub := &stubExplainer{texts: map[model.BucketType]string{
		model.BucketTypeDiscretionary: "Money you can spend guilt free.",
	}}
	svc := newTestService(t, WithExplainer(stub))
	ctx := context.Background()
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)

	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "Money you can spend guilt free.", plan.BucketByType(model.BucketTypeDiscretionary).Explanation)
	assert.Empty(t, plan.BucketByType(model.BucketTypeInvestments).Explanation)
}

func TestGeneratePlanSurvivesExplainerFailure(t *testing.T) {
	stub := &stubExplainer{err: errors.New("model unavailable")}
	svc := newTestService(t, WithExplainer(stub))
	ctx := context.Background()
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)

	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.True(t, plan.CheckSum())
	for _, b := range plan.Buckets {
		assert.Empty(t, b.Explanation)
	}
}

func TestApplyEditPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)

	disc := plan.BucketByType(model.BucketTypeDiscretionary)
	target := disc.AllocatedAmount - 100

	result, err := svc.ApplyEdit(ctx, "u1", disc.ID, target)
	require.NoError(t, err)
	assert.InDelta(t, target, result.AppliedAmount, 0.001)
	assert.True(t, result.Plan.CheckSum())

	stored, err := svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, target, stored.BucketByType(model.BucketTypeDiscretionary).AllocatedAmount, 0.001)
}

func TestApplyEditUnknownBucket(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()
	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	_, err = svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)

	_, err = svc.ApplyEdit(ctx, "u1", "nope", 100)
	assert.ErrorIs(t, err, allocation.ErrBucketNotFound)
}

func TestSelectPresetSurvivesRegeneration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	_, err = svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)

	result, err := svc.SelectPreset(ctx, "u1", model.BucketTypeDiscretionary, model.PresetTierLow)
	require.NoError(t, err)
	edited := result.Plan.BucketByType(model.BucketTypeDiscretionary)
	assert.Equal(t, model.PresetTierLow, edited.SelectedTier)
	assert.InDelta(t, edited.PresetOptions.Low, edited.AllocatedAmount, 0.01)

	// Regenerating reapplies the persisted tier selection.
	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)
	disc := plan.BucketByType(model.BucketTypeDiscretionary)
	assert.Equal(t, model.PresetTierLow, disc.SelectedTier)
	assert.InDelta(t, disc.PresetOptions.Low, disc.AllocatedAmount, 0.01)
	assert.True(t, plan.CheckSum())
}

func TestAccountLinksSurviveRegeneration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, accounts)
	require.NoError(t, err)
	_, err = svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)

	require.NoError(t, svc.SetAccountLinks(ctx, "u1", model.BucketTypeEmergencyFund, []string{"sav1", "sav2"}))

	stored, err := svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sav1", "sav2"}, stored.BucketByType(model.BucketTypeEmergencyFund).LinkedAccountIDs)

	plan, err := svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.Equal(t, []string{"sav1", "sav2"}, plan.BucketByType(model.BucketTypeEmergencyFund).LinkedAccountIDs)
}

func TestLinkedBalances(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetAccountLinks(ctx, "u1", model.BucketTypeEmergencyFund, []string{"sav1", "sav2"}))

	balances, err := svc.LinkedBalances(ctx, "u1", []model.Account{
		{ID: "sav1", Type: model.AccountTypeDepository, CurrentBalance: 4000},
		{ID: "sav2", Type: model.AccountTypeDepository, CurrentBalance: 1500},
		{ID: "chk", Type: model.AccountTypeDepository, CurrentBalance: 900},
	})
	require.NoError(t, err)
	assert.InDelta(t, 5500, balances[model.BucketTypeEmergencyFund], 0.001)
}

func TestResolveReviewItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// An ambiguous transfer with no counterpart lands in the review queue.
	txns := []model.Transaction{
		{ID: "t1", Amount: -5000, Date: day(-10), MerchantName: "PAYROLL", CategoryLabels: []string{"Payroll"}},
		{ID: "t2", Amount: 600, Date: day(-8), MerchantName: "TRANSFER TO ACCT XX1234", CategoryLabels: []string{"Transfer"}},
	}
	_, items, err := svc.RefreshSnapshot(ctx, "u1", txns, nil)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Error(t, svc.ResolveReviewItem(ctx, "u1", items[0].ID, "maybe"))
	require.NoError(t, svc.ResolveReviewItem(ctx, "u1", items[0].ID, ResolutionInternal))

	unresolved, _, err := svc.ListReviewItems(ctx, "u1", true, 10, "")
	require.NoError(t, err)
	assert.Empty(t, unresolved)
}

func TestResolutionsFlowIntoNextRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{ID: "t1", Amount: -5000, Date: day(-10), MerchantName: "PAYROLL", CategoryLabels: []string{"Payroll"}},
		{ID: "t2", Amount: 600, Date: day(-8), MerchantName: "TRANSFER TO ACCT XX1234", CategoryLabels: []string{"Transfer"}},
	}
	snap, items, err := svc.RefreshSnapshot(ctx, "u1", txns, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Until resolved, the flagged outflow counts in neither direction.
	assert.Zero(t, snap.MonthlyFlow.EssentialExpenses.Total())

	require.NoError(t, svc.ResolveReviewItem(ctx, "u1", items[0].ID, ResolutionExternal))

	// The confirmed expense now enters the monthly flow, and the item is
	// not re-flagged.
	snap, items, err = svc.RefreshSnapshot(ctx, "u1", txns, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.InDelta(t, 600, snap.MonthlyFlow.EssentialExpenses.Other, 0.001)
	assert.InDelta(t, 5000-600, snap.MonthlyFlow.DisposableIncome(), 0.001)
}

func TestGetWarnings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Essentials at 86% of income trip the essential-pressure check.
	txns := []model.Transaction{
		{ID: "t1", Amount: -5000, Date: day(-10), MerchantName: "PAYROLL", CategoryLabels: []string{"Payroll"}},
		{ID: "t2", Amount: 4300, Date: day(-9), MerchantName: "OAKWOOD APARTMENTS", CategoryLabels: []string{"Rent"}},
	}
	_, _, err := svc.RefreshSnapshot(ctx, "u1", txns, nil)
	require.NoError(t, err)
	_, err = svc.GeneratePlan(ctx, "u1", model.IncomeStabilityStable)
	require.NoError(t, err)

	warnings, err := svc.GetWarnings(ctx, "u1")
	require.NoError(t, err)
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, allocation.WarnEssentialPressure)
}

func TestRefreshSnapshotStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)
	mockStore.EXPECT().ListReviewItems(gomock.Any(), "u1", false, int32(100), "").Return(nil, "", nil)
	mockStore.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(errors.New("firestore unavailable"))

	svc := NewPlanningService(mockStore, allocation.DefaultConfig(), WithClock(func() time.Time { return testNow }))
	txns, accounts := fixtureData()

	_, _, err := svc.RefreshSnapshot(context.Background(), "u1", txns, accounts)
	assert.ErrorContains(t, err, "save snapshot")
}

func TestApplyEditSaveFailureLeavesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)

	plan := &model.AllocationPlan{ID: "p1", UserID: "u1", DisposableIncome: 1000}
	disc := &model.AllocationBucket{ID: "b1", Type: model.BucketTypeDiscretionary, IsModifiable: true}
	disc.SetAmount(600)
	ef := &model.AllocationBucket{ID: "b2", Type: model.BucketTypeEmergencyFund, IsModifiable: true}
	ef.SetAmount(400)
	plan.Buckets = []*model.AllocationBucket{disc, ef}

	mockStore.EXPECT().GetPlan(gomock.Any(), "u1").Return(plan, nil)
	mockStore.EXPECT().SavePlan(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))

	svc := NewPlanningService(mockStore, allocation.DefaultConfig())
	_, err := svc.ApplyEdit(context.Background(), "u1", "b1", 500)
	assert.ErrorContains(t, err, "save plan")
}
