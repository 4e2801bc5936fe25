//go:build unittest

package instagram

import (
	"context"
	"fmt"
)

func launchSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	return nil, fmt.Errorf("browser: %w (build tag: unittest)", ErrBrowserNotReady)
}
