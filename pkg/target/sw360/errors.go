// Copyright 2025 Interlynk.io
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

package sw360

import (
	"errors"
	"fmt"
)

// ErrorCode classifies catalog errors for callers that branch on kind
// rather than on concrete type.
type ErrorCode string

const (
	CodeConfiguration      ErrorCode = "SW360_CONFIGURATION"
	CodeRemoteOperation    ErrorCode = "SW360_REMOTE_OPERATION"
	CodePaginationMismatch ErrorCode = "SW360_PAGINATION_MISMATCH"
	CodeMissingLink        ErrorCode = "SW360_MISSING_LINK"
	CodeMissingField       ErrorCode = "SW360_MISSING_FIELD"
)

const maxBodyInErrorMessage = 512

// ConfigurationError reports a missing or invalid catalog setting. It is
// raised before any remote call is made.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sw360 configuration %s: %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Code() ErrorCode { return CodeConfiguration }

// RemoteOperationError wraps a non-success response or a transport failure.
// StatusCode is 0 when no response was received.
type RemoteOperationError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sw360 %s failed: %v", e.Operation, e.Err)
	}

	body := e.Body
	if len(body) > maxBodyInErrorMessage {
		body = body[:maxBodyInErrorMessage] + "..."
	}
	return fmt.Sprintf("sw360 %s failed: status=%d body=%q", e.Operation, e.StatusCode, body)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

func (e *RemoteOperationError) Code() ErrorCode { return CodeRemoteOperation }

// PaginationConsistencyError is raised when a paged listing drifts while it
// is being read.
type PaginationConsistencyError struct {
	Field    string
	Expected int
	Actual   int
}

func (e *PaginationConsistencyError) Error() string {
	if e.Field == "page" {
		return fmt.Sprintf("sw360 project listing: page %d has no page information", e.Expected)
	}
	return fmt.Sprintf("sw360 project listing: %s mismatch, expected %d, actual %d", e.Field, e.Expected, e.Actual)
}

func (e *PaginationConsistencyError) Code() ErrorCode { return CodePaginationMismatch }

// MissingLinkError is returned when an entity has no usable hypermedia link,
// which is always the case for drafts that were never persisted.
type MissingLinkError struct {
	Link string
	URL  string
}

func (e *MissingLinkError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("sw360 link %q has no trailing id: %s", e.Link, e.URL)
	}
	return fmt.Sprintf("sw360 link %q is missing", e.Link)
}

func (e *MissingLinkError) Code() ErrorCode { return CodeMissingLink }

// MissingFieldError is returned when a root field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("sw360 field %q does not exist", e.Field)
}

func (e *MissingFieldError) Code() ErrorCode { return CodeMissingField }

// CodeOf returns the catalog error code carried anywhere in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code(), true
	}
	return "", false
}
