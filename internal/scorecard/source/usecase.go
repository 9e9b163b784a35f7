package source

import (
	"context"

	"scorecard/internal/scorecard"
)

// Source yields the scorecard table a model artifact describes.
type Source interface {
	Load(ctx context.Context) (scorecard.Table, error)
}
