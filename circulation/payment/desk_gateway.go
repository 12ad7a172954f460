package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

var receiptNamespace = uuid.MustParse("0b3e8a52-5d6f-4f0a-8a4e-2c9d7e1b6a30")

// DeskGateway records payments taken at the circulation desk. It keeps the receipts of the
// running process so a retried charge returns the original receipt.
type DeskGateway struct {
	clock    timewindow.Clock
	mu       sync.Mutex
	receipts map[string]Receipt
}

// NewDeskGateway creates a DeskGateway.
func NewDeskGateway(clock timewindow.Clock) *DeskGateway {
	return &DeskGateway{clock: clock, receipts: make(map[string]Receipt)}
}

// Charge records the payment. The reference is derived from the idempotency key.
func (g *DeskGateway) Charge(ctx context.Context, charge Charge) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	if !charge.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: amount must be positive", ErrPaymentDeclined)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if receipt, ok := g.receipts[charge.IdempotencyKey]; ok {
		if !receipt.Amount.Equal(charge.Amount) {
			return Receipt{}, fmt.Errorf("%w: key %s was charged with a different amount", ErrPaymentDeclined, charge.IdempotencyKey)
		}

		return receipt, nil
	}

	receipt := Receipt{
		Reference: "desk-" + uuid.NewSHA1(receiptNamespace, []byte(charge.IdempotencyKey)).String(),
		Amount:    charge.Amount,
		ChargedAt: g.clock.Now(),
	}
	g.receipts[charge.IdempotencyKey] = receipt

	return receipt, nil
}

// Charges returns how many distinct charges were recorded.
func (g *DeskGateway) Charges() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.receipts)
}
