package location

import "context"

// Provider produces a best-effort location fix.
type Provider interface {
	Name() string
	Locate(ctx context.Context) (Fix, error)
}
