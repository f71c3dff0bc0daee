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

package exception

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type CustomError struct {
	Status  int                    `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

func (c CustomError) Error() string {
	msg := c.Message
	// longest keys first, otherwise $county would be clobbered by $count
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprintf("%v", c.Params[k]))
	}
	return msg
}

// IsUnauthorized reports whether err carries a 401 from the procurement backend.
func IsUnauthorized(err error) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Status == http.StatusUnauthorized
	}
	return false
}

// HasCode reports whether err is a CustomError with the given code.
func HasCode(err error, code string) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

const SessionExpired = "401"
const SessionExpiredMsg = "Session is no longer valid, please log in again"

const BackendUnavailable = "502"
const BackendUnavailableMsg = "Failed to load $entity from procurement backend"

const MalformedResponse = "503"
const MalformedResponseMsg = "Unexpected $entity response shape from procurement backend"

const SupersededRequest = "409"
const SupersededRequestMsg = "Request for view $viewId was superseded by a newer one"

const InvalidURLEscape = "6"
const InvalidURLEscapeMsg = "Failed to unescape parameter $param"

const InvalidParameterValue = "9"
const InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const RequiredParamsMissing = "15"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InvalidCredentials = "20"
const InvalidCredentialsMsg = "Invalid credentials"

const UnknownSchema = "110"
const UnknownSchemaMsg = "Schema for entity '$entity' is not published"
