package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/utils"
	"github.com/zhiming817/learn2earn/workflow"
)

// Settlement-specific failures. Workflow errors (ErrUnauthorized,
// ErrInvalidState, ErrNotFound) are reused so the HTTP layer maps one
// taxonomy.
var (
	ErrInvalidRecipient  = errors.New("recipient is not a valid SUI address")
	ErrInvalidAmount     = errors.New("amount must be a positive finite number")
	ErrInsufficientFunds = errors.New("amount exceeds available wallet balance")
	ErrNoWallet          = errors.New("no wallet connected")
	ErrExternalFailure   = errors.New("wallet collaborator failed")
)

// suiAddrRe matches the network address contract: 0x followed by exactly
// 64 hex characters.
var suiAddrRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Intent is the not-yet-executed description of a transfer. Built fresh
// per attempt and never reused.
type Intent struct {
	SubmissionID uint
	Recipient    string
	Amount       float64
	AmountMist   uint64
	Token        string
	Memo         string
}

// PayoutStore persists settlement outcomes.
type PayoutStore interface {
	CreatePayout(ctx context.Context, p *models.Payout) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.Payout, error)
}

// Coordinator turns an approved submission into a payout attempt. It
// validates preconditions in a fixed order, delegates the transfer to the
// wallet collaborator and records the outcome. It never changes the
// submission status and never retries a transfer on its own: blind retry
// of a funds transfer risks paying twice.
type Coordinator struct {
	subs     workflow.Store
	payouts  PayoutStore
	wallet   Wallet
	operator string
}

func NewCoordinator(subs workflow.Store, payouts PayoutStore, wallet Wallet, operatorAddress string) *Coordinator {
	return &Coordinator{subs: subs, payouts: payouts, wallet: wallet, operator: operatorAddress}
}

// Initiate runs one settlement attempt. Preconditions fail fast, in order:
// review permission, submission approved, recipient format, positive
// amount within fresh balance, wallet session active. No wallet transfer
// happens unless every check passes.
//
// On a transfer failure the recorded Payout is returned together with the
// error so the operator sees the collaborator's reason verbatim. Either
// outcome leaves the submission eligible for another attempt.
func (c *Coordinator) Initiate(ctx context.Context, actor authz.Actor, submissionID uint, recipient string, amount float64, token, memo string) (*models.Payout, error) {
	if !authz.CanPerform(actor, authz.ActionSubmissionSettle, authz.Resource{Kind: "submission", ID: submissionID}) {
		return nil, workflow.ErrUnauthorized
	}

	sub, err := c.subs.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubmissionApproved {
		return nil, fmt.Errorf("%w: submission is %s, settlement requires approved", workflow.ErrInvalidState, sub.Status)
	}

	recipient = strings.TrimSpace(recipient)
	if !suiAddrRe.MatchString(recipient) {
		return nil, ErrInvalidRecipient
	}

	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	// Balance is fetched fresh on every attempt, never cached.
	balance, err := c.wallet.Balance(ctx, c.operator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalFailure, err)
	}
	if amount > balance {
		return nil, ErrInsufficientFunds
	}

	if !c.wallet.Connected(ctx) {
		return nil, ErrNoWallet
	}

	if token == "" {
		token = "SUI"
	}
	intent := Intent{
		SubmissionID: submissionID,
		Recipient:    recipient,
		Amount:       amount,
		AmountMist:   uint64(math.Round(amount * MistPerSui)),
		Token:        token,
		Memo:         memo,
	}

	digest, transferErr := c.wallet.Transfer(ctx, intent.Recipient, intent.AmountMist)

	payout := &models.Payout{
		SubmissionID: intent.SubmissionID,
		Recipient:    intent.Recipient,
		Amount:       intent.Amount,
		Token:        intent.Token,
		Memo:         intent.Memo,
		OrderID:      utils.GenerateOrderID(actor.UserID),
	}
	if transferErr != nil {
		reason := transferErr.Error()
		payout.Status = models.PayoutFailed
		payout.FailReason = &reason
	} else {
		payout.Status = models.PayoutSuccess
		payout.TxDigest = &digest
	}

	// Record with a detached context: the outcome must land even when the
	// operator abandoned the request while the transfer was in flight.
	if err := c.payouts.CreatePayout(context.WithoutCancel(ctx), payout); err != nil {
		if transferErr == nil {
			// Funds moved but the record write failed. Surface loudly; the
			// digest in the log is the recovery handle.
			log.Printf("[settlement] payout record lost: submission=%d digest=%s err=%v", submissionID, digest, err)
			return payout, fmt.Errorf("%w: transfer sent (digest %s) but recording failed: %v", ErrExternalFailure, digest, err)
		}
		log.Printf("[settlement] failed payout not recorded: submission=%d err=%v", submissionID, err)
	}

	if transferErr != nil {
		return payout, fmt.Errorf("%w: %v", ErrExternalFailure, transferErr)
	}
	return payout, nil
}

// History lists past settlement attempts for a submission, for display.
func (c *Coordinator) History(ctx context.Context, actor authz.Actor, submissionID uint) ([]models.Payout, error) {
	if !authz.CanPerform(actor, authz.ActionSubmissionSettle, authz.Resource{Kind: "submission", ID: submissionID}) {
		return nil, workflow.ErrUnauthorized
	}
	return c.payouts.ListBySubmission(ctx, submissionID)
}
