package settlement

import "context"

// MistPerSui is the conversion constant between the human-readable SUI
// amount and the network's smallest unit.
const MistPerSui = 1_000_000_000

// Wallet is the on-chain collaborator boundary. The core only builds a
// transfer intent; signing, broadcasting and balance queries live behind
// this interface and are never retried here.
type Wallet interface {
	// Balance returns the spendable balance of the operator address in SUI.
	Balance(ctx context.Context, address string) (float64, error)

	// Transfer sends amountMist to recipient and returns the transaction
	// digest on success.
	Transfer(ctx context.Context, recipient string, amountMist uint64) (string, error)

	// Connected reports whether a signer session is currently available.
	Connected(ctx context.Context) bool
}
