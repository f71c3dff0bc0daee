package security

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
)

func NewSessionStrategy(sessionService service.SessionService) auth.Strategy {
	return &sessionStrategyImpl{sessionService: sessionService}
}

type sessionStrategyImpl struct {
	sessionService service.SessionService
}

func (s sessionStrategyImpl) Authenticate(ctx context.Context, r *http.Request) (auth.Info, error) {
	sessionId := secctx.GetSessionIdFromRequest(r)
	if sessionId == "" {
		return nil, fmt.Errorf("authentication failed: session id is empty")
	}
	record, ok := s.sessionService.Lookup(sessionId)
	if !ok {
		return nil, fmt.Errorf("authentication failed: session is unknown or expired")
	}

	ext := auth.Extensions{}
	ext.Set(secctx.SessionIdExt, sessionId)
	ext.Set(secctx.BackendTokenExt, record.BackendToken)
	return auth.NewDefaultUser(record.Session.User.Name, record.Session.User.Id, []string{record.Session.User.Role}, ext), nil
}
