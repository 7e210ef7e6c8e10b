package payment

import "context"

// Verifier is the outbound port to the payment gateway. The workflow polls it
// until it confirms capture or the poll budget runs out; implementations must
// honour context cancellation. A real gateway client can replace the bundled
// simulator without touching the order workflow.
type Verifier interface {
	Verify(ctx context.Context, orderID string) (bool, error)
}
