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

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/google/uuid"
)

// newSessionID draws a uniformly random 32-bit session id from r. The
// protocol does not depend on unpredictability for security, only on low
// collision probability between concurrent sessions; r defaults to
// crypto/rand.Reader and is only ever swapped for a deterministic source
// in tests.
func newSessionID(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// newCorrelationID mints a host-side-only identifier for log correlation.
// It never reaches the wire and has no bearing on protocol semantics.
func newCorrelationID() uuid.UUID {
	return uuid.New()
}

// defaultRandReader is crypto/rand.Reader, kept as a package var so
// WithRand's doc can point at a concrete default.
var defaultRandReader = rand.Reader
