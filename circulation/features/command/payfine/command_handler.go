package payfine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/payment"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// CommandHandler runs Query -> Check -> Charge -> Decide -> Append for PayFine.
// The charge uses the fine id as idempotency key, so a retry after a concurrency conflict charges only once.
type CommandHandler struct {
	runner  shell.CommandRunner
	gateway payment.Gateway
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, gateway payment.Gateway, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner:  shell.NewCommandRunner(eventStore, opts...),
		gateway: gateway,
	}
}

// Handle executes the command with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command), func(ctx context.Context, history core.DomainEvents) (core.DecisionResult, error) {
		fine, failure := Check(history, command)
		if failure != nil {
			return Decide(history, command, ""), nil
		}

		receipt, err := h.gateway.Charge(ctx, payment.Charge{
			IdempotencyKey: "fine:" + fine.FineID,
			UserID:         fine.UserID,
			Amount:         fine.Outstanding(),
			Token:          command.PaymentToken,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return core.DecisionResult{}, ctxErr
			}

			if !errors.Is(err, payment.ErrPaymentDeclined) {
				return core.DecisionResult{}, fmt.Errorf("charging fine %s: %w", fine.FineID, err)
			}

			return Decide(history, command, ""), nil
		}

		return Decide(history, command, receipt.Reference), nil
	})
}
