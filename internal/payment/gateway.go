package payment

import (
	"context"
	"errors"
)

// IntentStatusSucceeded is the only gateway status a payment may be applied
// from.
const IntentStatusSucceeded = "succeeded"

// ErrGatewayUnavailable marks failures talking to the external payment
// system. Callers may retry; nothing has been applied.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Intent mirrors the narrow slice of the external payment object the core
// consumes. The gateway is the sole source of truth for amount and status.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
}

type CreateIntentParams struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Gateway abstracts the external payment system so the confirmation flow
// can be tested against a fake.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
