package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/view"

	log "github.com/sirupsen/logrus"
	"gopkg.in/square/go-jose.v2/jwt"
)

// SessionRecord is what the gateway keeps per issued session id.
type SessionRecord struct {
	Session      view.Session
	BackendToken string
}

type SessionService interface {
	Login(ctx context.Context, credentials view.Credentials) (*view.Session, error)
	Logout(ctx context.Context) error
	Lookup(sessionId string) (*SessionRecord, bool)
	Invalidate(sessionId string)
	CurrentUser(ctx context.Context) (*view.User, error)
}

func NewSessionService(procurementClient client.ProcurementClient, ttl time.Duration, cacheSize int) SessionService {
	cache := libcache.LRU.New(cacheSize)
	cache.SetTTL(ttl)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	s := &sessionServiceImpl{procurementClient: procurementClient, cache: cache, ttl: ttl, now: time.Now}
	procurementClient.OnUnauthorized(func(ctx context.Context) {
		s.Invalidate(secctx.GetSessionId(ctx))
	})
	return s
}

type sessionServiceImpl struct {
	procurementClient client.ProcurementClient
	cache             libcache.Cache
	ttl               time.Duration
	now               func() time.Time
}

func (s *sessionServiceImpl) Login(ctx context.Context, credentials view.Credentials) (*view.Session, error) {
	if credentials.UserId == "" || credentials.Password == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "userId, password"},
		}
	}
	result, err := s.procurementClient.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	if tokenExpiry, ok := jwtExpiry(result.Token); ok && tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}
	if !expiresAt.After(issuedAt) {
		return nil, &exception.CustomError{
			Status:  http.StatusUnauthorized,
			Code:    exception.SessionExpired,
			Message: exception.SessionExpiredMsg,
			Debug:   "backend issued an already expired token",
		}
	}

	user := result.User
	if user.Id == "" {
		user.Id = credentials.UserId
	}
	record := &SessionRecord{
		Session: view.Session{
			Id:        uuid.NewString(),
			User:      user,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		BackendToken: result.Token,
	}
	s.cache.StoreWithTTL(record.Session.Id, record, expiresAt.Sub(issuedAt))
	log.Infof("Session issued for user %s, expires at %s", user.Id, expiresAt.Format(time.RFC3339))

	session := record.Session
	return &session, nil
}

func (s *sessionServiceImpl) Logout(ctx context.Context) error {
	sessionId := secctx.GetSessionId(ctx)
	defer s.Invalidate(sessionId)

	if err := s.procurementClient.Logout(ctx); err != nil && !exception.IsUnauthorized(err) {
		log.Warnf("Backend logout failed for session %s: %v", sessionId, err)
	}
	return nil
}

func (s *sessionServiceImpl) Lookup(sessionId string) (*SessionRecord, bool) {
	if sessionId == "" {
		return nil, false
	}
	val, ok := s.cache.Load(sessionId)
	if !ok {
		return nil, false
	}
	record, ok := val.(*SessionRecord)
	if !ok || !s.now().Before(record.Session.ExpiresAt) {
		s.Invalidate(sessionId)
		return nil, false
	}
	return record, true
}

func (s *sessionServiceImpl) Invalidate(sessionId string) {
	if sessionId == "" {
		return
	}
	if _, ok := s.cache.Peek(sessionId); ok {
		log.Infof("Session %s invalidated", sessionId)
	}
	s.cache.Delete(sessionId)
}

// CurrentUser asks the backend; the cached session user is served when the backend is unreachable.
func (s *sessionServiceImpl) CurrentUser(ctx context.Context) (*view.User, error) {
	user, err := s.procurementClient.GetCurrentUser(ctx)
	if err == nil {
		return user, nil
	}
	if exception.IsUnauthorized(err) {
		return nil, err
	}
	record, ok := s.Lookup(secctx.GetSessionId(ctx))
	if !ok {
		return nil, err
	}
	log.Warnf("Failed to get current user from backend, using session data: %v", err)
	cached := record.Session.User
	return &cached, nil
}

func jwtExpiry(token string) (time.Time, bool) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return time.Time{}, false
	}
	var claims jwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil || claims.Expiry == nil {
		return time.Time{}, false
	}
	return claims.Expiry.Time(), true
}
