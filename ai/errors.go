// Copyright 2025 Archivista Contributors
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


package ai

import "errors"

var (
	// ErrEmptyInput indicates an embed request with no text. Fatal.
	ErrEmptyInput = errors.New("embedding input cannot be empty")

	// ErrBatchMismatch indicates the provider returned a different number
	// of vectors than texts submitted.
	ErrBatchMismatch = errors.New("embedding batch result count mismatch")

	// ErrInvalidMaxAttempts is returned when retry is configured with
	// zero or negative attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

// FatalError wraps an embedder failure that will not succeed on retry,
// such as malformed input or bad credentials.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal embedding error: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks err as non-retriable. Returns nil if err is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is marked non-retriable.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
