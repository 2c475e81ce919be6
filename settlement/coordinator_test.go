package settlement

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/workflow"
)

const (
	operatorAddr = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	recipientOK  = "0x00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
)

var settler = authz.Actor{UserID: 7, Username: "ops", Permissions: []string{authz.ActionSubmissionSettle}}

type fakeWallet struct {
	balance        float64
	balanceErr     error
	balanceCalls   int
	connected      bool
	digest         string
	transferErr    error
	transferCalls  int
	lastRecipient  string
	lastAmountMist uint64
}

func (w *fakeWallet) Balance(_ context.Context, _ string) (float64, error) {
	w.balanceCalls++
	return w.balance, w.balanceErr
}

func (w *fakeWallet) Transfer(_ context.Context, recipient string, amountMist uint64) (string, error) {
	w.transferCalls++
	w.lastRecipient = recipient
	w.lastAmountMist = amountMist
	return w.digest, w.transferErr
}

func (w *fakeWallet) Connected(_ context.Context) bool { return w.connected }

func newTestCoordinator(t *testing.T, wallet *fakeWallet) (*Coordinator, *workflow.MemoryStore, *MemoryPayoutStore, uint) {
	t.Helper()
	subs := workflow.NewMemoryStore()
	subs.PutTask(&models.Task{ID: 1, Code: "T-001", Name: "Fix parser"})
	payouts := NewMemoryPayoutStore()

	engine := workflow.NewEngine(subs, workflow.Policy{})
	sub, err := engine.Submit(context.Background(), authz.Actor{UserID: 2}, 1, "https://github.com/org/repo/pull/1")
	require.NoError(t, err)
	_, err = engine.Approve(context.Background(), authz.Actor{UserID: 1, Roles: []string{authz.RoleAdmin}}, sub.ID)
	require.NoError(t, err)

	return NewCoordinator(subs, payouts, wallet, operatorAddr), subs, payouts, sub.ID
}

func TestInitiate_RequiresSettlePermission(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: true, digest: "0xd1"}
	c, _, _, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), authz.Actor{UserID: 9}, subID, recipientOK, 1, "", "")
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)
	assert.Zero(t, wallet.balanceCalls)
	assert.Zero(t, wallet.transferCalls)
}

func TestInitiate_RequiresApprovedSubmission(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: true}
	subs := workflow.NewMemoryStore()
	subs.PutTask(&models.Task{ID: 1, Code: "T-001", Name: "Fix parser"})
	engine := workflow.NewEngine(subs, workflow.Policy{})
	sub, err := engine.Submit(context.Background(), authz.Actor{UserID: 2}, 1, "https://github.com/org/repo/pull/1")
	require.NoError(t, err)

	c := NewCoordinator(subs, NewMemoryPayoutStore(), wallet, operatorAddr)
	_, err = c.Initiate(context.Background(), settler, sub.ID, recipientOK, 1, "", "")
	assert.ErrorIs(t, err, workflow.ErrInvalidState)
	assert.Contains(t, err.Error(), "pending")
	assert.Zero(t, wallet.balanceCalls)
	assert.Zero(t, wallet.transferCalls)
}

func TestInitiate_RecipientFormat(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: true}
	c, _, _, subID := newTestCoordinator(t, wallet)

	bad := []string{
		"",
		"0x1234",
		strings.TrimPrefix(recipientOK, "0x"),
		"0x" + strings.Repeat("g", 64),
		recipientOK + "aa",
	}
	for _, r := range bad {
		_, err := c.Initiate(context.Background(), settler, subID, r, 1, "", "")
		assert.ErrorIs(t, err, ErrInvalidRecipient, "recipient %q", r)
	}
	// format check precedes any wallet call
	assert.Zero(t, wallet.balanceCalls)

	// surrounding whitespace is tolerated
	_, err := c.Initiate(context.Background(), settler, subID, "  "+recipientOK+" ", 1, "", "")
	assert.NoError(t, err)
}

func TestInitiate_AmountValidation(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: true}
	c, _, _, subID := newTestCoordinator(t, wallet)

	for _, amt := range []float64{0, -1} {
		_, err := c.Initiate(context.Background(), settler, subID, recipientOK, amt, "", "")
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amt)
	}
	assert.Zero(t, wallet.balanceCalls)
	assert.Zero(t, wallet.transferCalls)
}

func TestInitiate_InsufficientFundsBeforeTransfer(t *testing.T) {
	wallet := &fakeWallet{balance: 2.5, connected: true}
	c, _, payouts, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), settler, subID, recipientOK, 3, "", "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1, wallet.balanceCalls)
	assert.Zero(t, wallet.transferCalls)

	history, err := payouts.ListBySubmission(context.Background(), subID)
	require.NoError(t, err)
	assert.Empty(t, history, "precondition failures are not recorded")
}

func TestInitiate_BalanceFetchedFreshEveryAttempt(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: true, digest: "0xd1"}
	c, _, _, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	require.NoError(t, err)
	_, err = c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, wallet.balanceCalls)
}

func TestInitiate_BalanceErrorIsExternalFailure(t *testing.T) {
	wallet := &fakeWallet{balanceErr: errors.New("rpc timeout"), connected: true}
	c, _, _, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	assert.ErrorIs(t, err, ErrExternalFailure)
	assert.Zero(t, wallet.transferCalls)
}

func TestInitiate_NoWallet(t *testing.T) {
	wallet := &fakeWallet{balance: 100, connected: false}
	c, _, _, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.Zero(t, wallet.transferCalls)
}

func TestInitiate_SuccessRecordsPayoutInMist(t *testing.T) {
	wallet := &fakeWallet{balance: 10, connected: true, digest: "0xdeadbeef"}
	c, _, payouts, subID := newTestCoordinator(t, wallet)

	payout, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1.5, "", "bounty T-001")
	require.NoError(t, err)

	assert.Equal(t, uint64(1_500_000_000), wallet.lastAmountMist)
	assert.Equal(t, recipientOK, wallet.lastRecipient)

	assert.Equal(t, models.PayoutSuccess, payout.Status)
	assert.Equal(t, "SUI", payout.Token, "token defaults to SUI")
	assert.Equal(t, 1.5, payout.Amount)
	assert.Equal(t, "bounty T-001", payout.Memo)
	require.NotNil(t, payout.TxDigest)
	assert.Equal(t, "0xdeadbeef", *payout.TxDigest)
	assert.Nil(t, payout.FailReason)
	assert.NotEmpty(t, payout.OrderID)

	history, err := payouts.ListBySubmission(context.Background(), subID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.PayoutSuccess, history[0].Status)
}

func TestInitiate_TransferFailureRecordedVerbatim(t *testing.T) {
	wallet := &fakeWallet{balance: 10, connected: true, transferErr: errors.New("InsufficientGas: budget 500 too low")}
	c, _, payouts, subID := newTestCoordinator(t, wallet)

	payout, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExternalFailure)
	require.NotNil(t, payout)
	assert.Equal(t, models.PayoutFailed, payout.Status)
	require.NotNil(t, payout.FailReason)
	assert.Equal(t, "InsufficientGas: budget 500 too low", *payout.FailReason)
	assert.Nil(t, payout.TxDigest)

	// one attempt, no retry
	assert.Equal(t, 1, wallet.transferCalls)

	history, err := payouts.ListBySubmission(context.Background(), subID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.PayoutFailed, history[0].Status)
}

func TestInitiate_RepeatSettlementRecordsEachAttempt(t *testing.T) {
	wallet := &fakeWallet{balance: 10, connected: true, digest: "0xd1"}
	c, _, payouts, subID := newTestCoordinator(t, wallet)

	_, err := c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	require.NoError(t, err)
	_, err = c.Initiate(context.Background(), settler, subID, recipientOK, 1, "", "")
	require.NoError(t, err)

	history, err := payouts.ListBySubmission(context.Background(), subID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 2, wallet.transferCalls)
}

func TestInitiate_RecordsOutcomeAfterContextCancel(t *testing.T) {
	wallet := &fakeWallet{balance: 10, connected: true, digest: "0xd1"}
	c, _, payouts, subID := newTestCoordinator(t, wallet)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// the memory store ignores ctx, but the coordinator must still hand the
	// record write a detached context rather than the canceled one
	payout, err := c.Initiate(ctx, settler, subID, recipientOK, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutSuccess, payout.Status)

	history, err := payouts.ListBySubmission(context.Background(), subID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHistory_RequiresSettlePermission(t *testing.T) {
	wallet := &fakeWallet{balance: 10, connected: true, digest: "0xd1"}
	c, _, _, subID := newTestCoordinator(t, wallet)

	_, err := c.History(context.Background(), authz.Actor{UserID: 3}, subID)
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = c.History(context.Background(), settler, subID)
	assert.NoError(t, err)
}
