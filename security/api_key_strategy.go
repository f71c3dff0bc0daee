package security

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/transparentprocure/oversight-service/secctx"
)

const ApiKeyHeader = "api-key"

// NewSystemApiKeyStrategy admits service-to-service callers presenting the configured key.
// Their backend calls are made with the gateway's own procurement token.
func NewSystemApiKeyStrategy(apiKey string) auth.Strategy {
	return &systemApiKeyStrategyImpl{apiKey: []byte(apiKey)}
}

type systemApiKeyStrategyImpl struct {
	apiKey []byte
}

func (a systemApiKeyStrategyImpl) Authenticate(ctx context.Context, r *http.Request) (auth.Info, error) {
	apiKeyHeader := r.Header.Get(ApiKeyHeader)
	if apiKeyHeader == "" {
		return nil, fmt.Errorf("authentication failed: %v is empty", ApiKeyHeader)
	}
	if subtle.ConstantTimeCompare([]byte(apiKeyHeader), a.apiKey) != 1 {
		return nil, fmt.Errorf("authentication failed: %v is not valid", ApiKeyHeader)
	}
	userExtensions := auth.Extensions{}
	userExtensions.Set(secctx.SystemRoleExt, secctx.SystemUserId)
	return auth.NewDefaultUser(secctx.SystemUserId, secctx.SystemUserId, []string{}, userExtensions), nil
}
