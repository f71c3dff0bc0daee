package security

import (
	"fmt"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/transparentprocure/oversight-service/service"
)

var strategy union.Union

func SetupGoGuardian(sessionService service.SessionService, systemApiKey string) error {
	if sessionService == nil {
		return fmt.Errorf("sessionService is nil")
	}
	strategies := []auth.Strategy{NewSessionStrategy(sessionService)}
	if systemApiKey != "" {
		strategies = append(strategies, NewSystemApiKeyStrategy(systemApiKey))
	}
	strategy = union.New(strategies...)
	return nil
}
