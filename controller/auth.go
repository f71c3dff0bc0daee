package controller

import (
	"encoding/json"
	"net/http"

	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
	"github.com/transparentprocure/oversight-service/view"
)

type AuthController interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
}

func NewAuthController(sessionService service.SessionService) AuthController {
	return &authControllerImpl{sessionService: sessionService}
}

type authControllerImpl struct {
	sessionService service.SessionService
}

func (a authControllerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var credentials view.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	session, err := a.sessionService.Login(r.Context(), credentials)
	if err != nil {
		respondWithError(w, "Failed to login", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     secctx.SessionCookieName,
		Value:    session.Id,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJson(w, http.StatusOK, session)
}

func (a authControllerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessionService.Logout(secctx.MakeUserContext(r)); err != nil {
		respondWithError(w, "Failed to logout", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: secctx.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (a authControllerImpl) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.sessionService.CurrentUser(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get current user", err)
		return
	}
	respondWithJson(w, http.StatusOK, user)
}
