package service

import (
	"context"
	"fmt"

	"github.com/transparentprocure/oversight-service/exception"

	log "github.com/sirupsen/logrus"
)

// sectionFailure decides whether a failed fetch fails the whole request or only empties its section.
// A rejected session and a cancelled request are returned as errors, anything else becomes a message.
func sectionFailure(ctx context.Context, section string, err error) (string, error) {
	if exception.IsUnauthorized(err) {
		return "", err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	log.Errorf("Failed to load %s: %v", section, err)
	return fmt.Sprintf("Failed to load %s", section), nil
}
