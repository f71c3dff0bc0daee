package secctx

import (
	"context"
	"net/http"
	"strings"

	"github.com/shaj13/go-guardian/v2/auth"
)

const (
	SessionIdExt    = "sessionId"
	BackendTokenExt = "backendToken"
	SystemRoleExt   = "systemRole"

	SessionCookieName = "oversight-session"
	SystemUserId      = "system"
)

type secCtxKey struct{}

type SecurityContext interface {
	getUserId() string
	getSessionId() string
	getBackendToken() string
	IsSystem() bool
}

// MakeUserContext carries the authenticated session of r into the context used for backend calls.
func MakeUserContext(r *http.Request) context.Context {
	user := auth.User(r)
	if user == nil {
		return r.Context()
	}
	ext := user.GetExtensions()
	return context.WithValue(r.Context(), secCtxKey{}, securityContextImpl{
		userId:       user.GetID(),
		sessionId:    ext.Get(SessionIdExt),
		backendToken: ext.Get(BackendTokenExt),
		isSystem:     ext.Get(SystemRoleExt) != "",
	})
}

func MakeSessionContext(ctx context.Context, sessionId, userId, backendToken string) context.Context {
	return context.WithValue(ctx, secCtxKey{}, securityContextImpl{
		userId:       userId,
		sessionId:    sessionId,
		backendToken: backendToken,
	})
}

func MakeSysadminContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, secCtxKey{}, securityContextImpl{userId: SystemUserId, isSystem: true})
}

type securityContextImpl struct {
	userId       string
	sessionId    string
	backendToken string
	isSystem     bool
}

func (ctx securityContextImpl) getUserId() string       { return ctx.userId }
func (ctx securityContextImpl) getSessionId() string    { return ctx.sessionId }
func (ctx securityContextImpl) getBackendToken() string { return ctx.backendToken }
func (ctx securityContextImpl) IsSystem() bool          { return ctx.isSystem }

// GetSessionIdFromRequest reads the gateway session id from the bearer header, then from the session cookie.
func GetSessionIdFromRequest(r *http.Request) string {
	if token := getTokenFromAuthHeader(r); token != "" {
		return token
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

func get(ctx context.Context) (SecurityContext, bool) {
	if ctx == nil {
		return nil, false
	}
	val, ok := ctx.Value(secCtxKey{}).(securityContextImpl)
	return val, ok
}

func IsSystem(ctx context.Context) bool {
	val, ok := get(ctx)
	if !ok {
		return false
	}
	return val.IsSystem()
}

func GetUserId(ctx context.Context) string {
	val, ok := get(ctx)
	if !ok {
		return ""
	}
	return val.getUserId()
}

func GetSessionId(ctx context.Context) string {
	val, ok := get(ctx)
	if !ok {
		return ""
	}
	return val.getSessionId()
}

func GetBackendToken(ctx context.Context) string {
	val, ok := get(ctx)
	if !ok {
		return ""
	}
	return val.getBackendToken()
}
