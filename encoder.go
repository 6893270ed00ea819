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
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Encoder splits one payload into a sequence of frames, identified by a
// single randomly chosen session id, and renders each frame on demand as a
// base45 string or a PNG QR code. An Encoder is single-owner: the
// recommended usage is a single-threaded producer.
type Encoder struct {
	payload    []byte
	chunkSize  int
	chunkCount int
	sessionID  uint32
	corrID     uuid.UUID
	log        *logrus.Entry
}

// EncoderOption configures NewEncoder beyond its required arguments.
type EncoderOption func(*encoderConfig)

type encoderConfig struct {
	rand io.Reader
	log  *logrus.Entry
}

// WithRand overrides the source of randomness used to pick the session id.
// It exists only as a test affordance; production code should accept the
// crypto/rand default.
func WithRand(r io.Reader) EncoderOption {
	return func(c *encoderConfig) { c.rand = r }
}

// WithEncoderLogger attaches a structured logger to the encoder. Defaults
// to a package-level logrus entry.
func WithEncoderLogger(l *logrus.Entry) EncoderOption {
	return func(c *encoderConfig) { c.log = l }
}

// NewEncoder validates chunkSize, copies payload, derives the chunk count,
// and draws a random session id. chunkSize is the total frame size
// (header + payload bytes per chunk).
func NewEncoder(payload []byte, chunkSize int, opts ...EncoderOption) (*Encoder, error) {
	cfg := encoderConfig{rand: defaultRandReader, log: defaultLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	if chunkSize < MinChunkSize {
		return nil, ErrChunkSizeTooSmall
	}
	if chunkSize > MaxChunkSize {
		return nil, ErrChunkSizeTooLarge
	}

	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)

	payloadPerChunk := chunkSize - HeaderSize
	chunkCount := 1
	if len(payloadCopy) > 0 {
		if payloadPerChunk == 0 {
			// A chunk_size of exactly HeaderSize carries zero payload
			// bytes per frame, so a non-empty payload would need an
			// unbounded number of chunks to fit.
			return nil, ErrTooManyChunks
		}
		chunkCount = (len(payloadCopy) + payloadPerChunk - 1) / payloadPerChunk
	}
	if chunkCount > maxChunkCount {
		return nil, ErrTooManyChunks
	}

	sessionID, err := newSessionID(cfg.rand)
	if err != nil {
		return nil, wrapError(ErrUnknown, err)
	}

	corrID := newCorrelationID()
	log := cfg.log.WithFields(logrus.Fields{
		"corr_id":     corrID.String(),
		"session_id":  sessionID,
		"chunk_count": chunkCount,
	})
	log.Debug("airgap: encoder created")

	return &Encoder{
		payload:    payloadCopy,
		chunkSize:  chunkSize,
		chunkCount: chunkCount,
		sessionID:  sessionID,
		corrID:     corrID,
		log:        log,
	}, nil
}

// ChunkCount returns the total number of chunks this encoder will produce.
func (e *Encoder) ChunkCount() int { return e.chunkCount }

// SessionID returns the 32-bit session id for this encode session.
func (e *Encoder) SessionID() uint32 { return e.sessionID }

// CorrelationID returns the host-side-only uuid tagging this encoder's log
// lines. It is never transmitted and has no protocol meaning.
func (e *Encoder) CorrelationID() uuid.UUID { return e.corrID }

// chunkPayload returns the payload slice for chunk index, without
// serializing a frame.
func (e *Encoder) chunkPayload(index int) ([]byte, error) {
	if index < 0 || index >= e.chunkCount {
		return nil, ErrChunkOutOfBounds
	}
	payloadPerChunk := e.chunkSize - HeaderSize
	start := index * payloadPerChunk
	end := start + payloadPerChunk
	if end > len(e.payload) {
		end = len(e.payload)
	}
	if start > len(e.payload) {
		start = len(e.payload)
	}
	return e.payload[start:end], nil
}

// frameBytes serializes the raw frame for chunk index.
func (e *Encoder) frameBytes(index int) ([]byte, error) {
	payload, err := e.chunkPayload(index)
	if err != nil {
		return nil, err
	}
	return serializeFrame(e.sessionID, uint16(index), uint16(e.chunkCount), payload), nil
}

// GenerateQRString returns the base45-encoded frame for chunk index — the
// string that would be scanned from a QR code.
func (e *Encoder) GenerateQRString(index int) (string, error) {
	raw, err := e.frameBytes(index)
	if err != nil {
		return "", err
	}
	return encodeBase45(raw), nil
}

// GeneratePNG renders the QR code for chunk index as PNG bytes.
func (e *Encoder) GeneratePNG(index int) ([]byte, error) {
	qrString, err := e.GenerateQRString(index)
	if err != nil {
		return nil, err
	}
	png, err := renderPNG(qrString)
	if err != nil {
		e.log.WithError(err).WithField("index", index).Warn("airgap: qr render failed")
		return nil, err
	}
	e.log.WithField("index", index).Debug("airgap: qr rendered")
	return png, nil
}
