package payment

import "context"

// Gateway is the thin client to the external payment processor.
type Gateway interface {
	Initialize(ctx context.Context, req InitRequest) (*InitResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyData, error)
}
