// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/utils"
	"github.com/transparentprocure/oversight-service/view"

	log "github.com/sirupsen/logrus"
)

const ViewIdHeader = "X-View-Id"

func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Failed to marshal response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		body, _ := json.Marshal(exception.CustomError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode response",
			Debug:   err.Error(),
		})
		w.Write(body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, msg string, err error) {
	var customError *exception.CustomError
	if errors.As(err, &customError) {
		RespondWithCustomError(w, customError)
		return
	}
	log.Errorf("%s: %s", msg, err.Error())
	RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusInternalServerError,
		Message: msg,
		Debug:   err.Error(),
	})
}

// RespondWithCustomError writes err as JSON. A 401 carries the login redirect so the client drops its session.
func RespondWithCustomError(w http.ResponseWriter, err *exception.CustomError) {
	log.Debugf("Request failed. Code = %d. Message = %s. Params: %v. Debug: %s", err.Status, err.Message, err.Params, err.Debug)
	if err.Status == http.StatusUnauthorized {
		respondWithJson(w, err.Status, view.UnauthorizedResponse{
			Status:   err.Status,
			Code:     err.Code,
			Message:  err.Error(),
			Redirect: view.LoginRedirect,
		})
		return
	}
	respondWithJson(w, err.Status, err)
}

func getStringParam(r *http.Request, p string) string {
	params := mux.Vars(r)
	return params[p]
}

func getUnescapedStringParam(r *http.Request, param string) (string, error) {
	params := mux.Vars(r)
	return url.PathUnescape(params[param])
}

// getLimitParam returns 0 when the query parameter is absent.
func getLimitParam(r *http.Request, param string) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": param, "value": raw},
		}
	}
	return limit, nil
}

// beginView scopes the client-supplied view id to the caller and the route.
func beginView(r *http.Request, generations utils.ViewGenerations, route string) (context.Context, *utils.Generation) {
	ctx := secctx.MakeUserContext(r)
	viewId := r.Header.Get(ViewIdHeader)
	if viewId == "" {
		return ctx, &utils.Generation{}
	}
	owner := secctx.GetSessionId(ctx)
	if owner == "" {
		owner = secctx.GetUserId(ctx)
	}
	return generations.Begin(ctx, owner+"/"+route+"/"+viewId)
}

// respondWithView answers with payload unless a newer request of the same view has begun meanwhile.
func respondWithView(w http.ResponseWriter, r *http.Request, gen *utils.Generation, msg string, payload interface{}, err error) {
	defer gen.Done()
	if !gen.IsCurrent() {
		log.Debugf("Discarding stale response for view %s", gen.ViewId)
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.SupersededRequest,
			Message: exception.SupersededRequestMsg,
			Params:  map[string]interface{}{"viewId": r.Header.Get(ViewIdHeader)},
		})
		return
	}
	if err != nil {
		respondWithError(w, msg, err)
		return
	}
	respondWithJson(w, http.StatusOK, payload)
}
