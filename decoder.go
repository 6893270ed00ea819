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
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Decoder accumulates frames for exactly one session, deduplicating and
// validating each arrival, and reassembles the payload once every chunk
// index has been received at least once. A Decoder is single-owner; to
// decode a new session, construct a new Decoder.
type Decoder struct {
	sessionSet bool
	sessionID  uint32
	total      uint16

	chunks   map[uint16][]byte
	complete bool

	corrID uuid.UUID
	log    *logrus.Entry
}

// DecoderOption configures NewDecoder.
type DecoderOption func(*decoderConfig)

type decoderConfig struct {
	log *logrus.Entry
}

// WithDecoderLogger attaches a structured logger to the decoder. Defaults
// to a package-level logrus entry.
func WithDecoderLogger(l *logrus.Entry) DecoderOption {
	return func(c *decoderConfig) { c.log = l }
}

// NewDecoder returns an empty decoder, ready to receive frames for
// whichever session its first valid frame belongs to.
func NewDecoder(opts ...DecoderOption) *Decoder {
	cfg := decoderConfig{log: defaultLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	corrID := newCorrelationID()
	log := cfg.log.WithField("corr_id", corrID.String())
	log.Debug("airgap: decoder created")

	return &Decoder{
		chunks: make(map[uint16][]byte),
		corrID: corrID,
		log:    log,
	}
}

// CorrelationID returns the host-side-only uuid tagging this decoder's log
// lines. It is never transmitted and has no protocol meaning.
func (d *Decoder) CorrelationID() uuid.UUID { return d.corrID }

// TotalChunks returns the expected chunk count, or 0 before the first
// accepted frame.
func (d *Decoder) TotalChunks() int {
	if !d.sessionSet {
		return 0
	}
	return int(d.total)
}

// ReceivedChunks returns the number of distinct chunk indices received.
func (d *Decoder) ReceivedChunks() int { return len(d.chunks) }

// IsComplete reports whether every chunk index in [0, total) has been
// received at least once.
func (d *Decoder) IsComplete() bool { return d.complete }

// ProcessQR decodes, validates and (if new) stores one scanned frame. It
// returns the frame's (chunkIndex, totalChunks) on success, including on
// idempotent duplicate or late arrivals. No error path mutates decoder
// state.
func (d *Decoder) ProcessQR(qrString string) (chunkIndex int, totalChunks int, err error) {
	raw, err := decodeBase45(qrString)
	if err != nil {
		d.log.WithError(err).Warn("airgap: process_qr rejected")
		return 0, 0, err
	}

	f, err := parseFrame(raw)
	if err != nil {
		d.log.WithError(err).Warn("airgap: process_qr rejected")
		return 0, 0, err
	}

	if !d.sessionSet {
		d.sessionSet = true
		d.sessionID = f.sessionID
		d.total = f.totalChunks
		d.log = d.log.WithFields(logrus.Fields{
			"session_id": d.sessionID,
			"total":      d.total,
		})
		d.log.Info("airgap: decoder adopted session")
	} else if f.sessionID != d.sessionID {
		d.log.WithField("frame_session_id", f.sessionID).Warn("airgap: session mismatch")
		return 0, 0, ErrSessionMismatch
	} else if f.totalChunks != d.total {
		d.log.WithField("frame_total", f.totalChunks).Warn("airgap: metadata mismatch")
		return 0, 0, ErrMetadataMismatch
	}

	index := int(f.chunkIndex)
	total := int(d.total)

	if d.complete {
		return index, total, nil
	}

	if _, ok := d.chunks[f.chunkIndex]; ok {
		return index, total, nil
	}

	payload := make([]byte, len(f.payload))
	copy(payload, f.payload)
	d.chunks[f.chunkIndex] = payload

	if len(d.chunks) == int(d.total) {
		d.complete = true
		d.log.Info("airgap: decoder complete")
	}

	return index, total, nil
}

// GetData reassembles the payload from received chunks in ascending index
// order. It requires IsComplete and validates that every non-final chunk
// shares one length and the final chunk's length is within bounds.
func (d *Decoder) GetData() ([]byte, error) {
	if !d.complete {
		return nil, ErrMissingChunk
	}

	indices := make([]uint16, 0, len(d.chunks))
	for idx := range d.chunks {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	if d.total > 1 {
		nonFinalLen := len(d.chunks[indices[0]])
		for _, idx := range indices[:len(indices)-1] {
			if len(d.chunks[idx]) != nonFinalLen {
				return nil, ErrMetadataMismatch
			}
		}
		finalLen := len(d.chunks[indices[len(indices)-1]])
		if finalLen < 1 || finalLen > nonFinalLen {
			return nil, ErrMetadataMismatch
		}
	} else {
		finalLen := len(d.chunks[indices[0]])
		if finalLen > MaxChunkSize-HeaderSize {
			return nil, ErrMetadataMismatch
		}
	}

	out := make([]byte, 0)
	for _, idx := range indices {
		out = append(out, d.chunks[idx]...)
	}
	return out, nil
}
