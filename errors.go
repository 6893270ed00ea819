// Copyright 2022 Dmitry Mandrika
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package airgap

import "errors"

// Code is the stable integer error taxonomy exposed across the module
// boundary. Values match the historical FFI error codes one-for-one so a
// future C shim can recover them from a wrapped Go error.
type Code int

const (
	CodeOK                  Code = 0
	CodeUnknown             Code = -1
	CodeNullPointer         Code = -2
	CodeInvalidMagic        Code = -3
	CodeUnsupportedVersion  Code = -4
	CodeCRCMismatch         Code = -5
	CodeSessionMismatch     Code = -6
	CodeMetadataMismatch    Code = -7
	CodeChunkOutOfBounds    Code = -8
	CodeTooManyChunks       Code = -9
	CodeChunkSizeTooLarge   Code = -10
	CodeChunkSizeTooSmall   Code = -11
	CodeMissingChunk        Code = -12
	CodeEncoding            Code = -13
)

// protocolError pairs a stable Code with a human-readable message. It
// implements error and is always compared with errors.Is against the
// package-level sentinels below, never by string matching.
type protocolError struct {
	code  Code
	msg   string
	cause error
}

func (e *protocolError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Code reports the stable integer error code for e, for callers that need
// to recover the error taxonomy across a serialization or FFI boundary.
func (e *protocolError) Code() Code { return e.code }

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As chains.
func (e *protocolError) Unwrap() error { return e.cause }

// Is reports equality by stable Code rather than by identity, so a wrapped
// instance of a sentinel still satisfies errors.Is(err, ErrUnknown).
func (e *protocolError) Is(target error) bool {
	t, ok := target.(*protocolError)
	return ok && t.code == e.code
}

func newProtocolError(code Code, msg string) *protocolError {
	return &protocolError{code: code, msg: msg}
}

// wrapError returns a new error carrying sentinel's Code and message, with
// cause attached for Unwrap and for a richer Error() string. Used at
// boundaries (QR rendering) where an underlying library error must surface
// through the stable taxonomy without losing its detail.
func wrapError(sentinel *protocolError, cause error) error {
	return &protocolError{code: sentinel.code, msg: sentinel.msg, cause: cause}
}

// Sentinel protocol errors. Compare with errors.Is, e.g.:
//
//	if errors.Is(err, ErrCRCMismatch) { ... }
var (
	ErrUnknown            = newProtocolError(CodeUnknown, "airgap: unknown error")
	ErrNullPointer        = newProtocolError(CodeNullPointer, "airgap: null pointer")
	ErrInvalidMagic       = newProtocolError(CodeInvalidMagic, "airgap: invalid magic")
	ErrUnsupportedVersion = newProtocolError(CodeUnsupportedVersion, "airgap: unsupported version")
	ErrCRCMismatch        = newProtocolError(CodeCRCMismatch, "airgap: crc mismatch")
	ErrSessionMismatch    = newProtocolError(CodeSessionMismatch, "airgap: session mismatch")
	ErrMetadataMismatch   = newProtocolError(CodeMetadataMismatch, "airgap: metadata mismatch")
	ErrChunkOutOfBounds   = newProtocolError(CodeChunkOutOfBounds, "airgap: chunk out of bounds")
	ErrTooManyChunks      = newProtocolError(CodeTooManyChunks, "airgap: too many chunks")
	ErrChunkSizeTooLarge  = newProtocolError(CodeChunkSizeTooLarge, "airgap: chunk size too large")
	ErrChunkSizeTooSmall  = newProtocolError(CodeChunkSizeTooSmall, "airgap: chunk size too small")
	ErrMissingChunk       = newProtocolError(CodeMissingChunk, "airgap: missing chunk")
	ErrEncoding           = newProtocolError(CodeEncoding, "airgap: encoding error")
)

// ErrorCode extracts the stable Code from err, walking the errors.Is chain.
// It returns CodeUnknown if err is non-nil but carries no Code, and CodeOK
// if err is nil.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var pe *protocolError
	if errors.As(err, &pe) {
		return pe.code
	}
	return CodeUnknown
}
