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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoderEmptyPayloadMinChunkSize(t *testing.T) {
	enc, err := NewEncoder(nil, MinChunkSize)
	require.NoError(t, err)
	require.Equal(t, 1, enc.ChunkCount())

	qr, err := enc.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	_, _, err = dec.ProcessQR(qr)
	require.NoError(t, err)
	require.True(t, dec.IsComplete())

	data, err := dec.GetData()
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestDecoderSingleChunkPayload(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	enc, err := NewEncoder(payload, 32)
	require.NoError(t, err)

	qr, err := enc.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	_, _, err = dec.ProcessQR(qr)
	require.NoError(t, err)

	data, err := dec.GetData()
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestDecoderExactMultipleOutOfOrder(t *testing.T) {
	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i)
	}
	enc, err := NewEncoder(payload, 32)
	require.NoError(t, err)
	require.Equal(t, 2, enc.ChunkCount())

	qr0, err := enc.GenerateQRString(0)
	require.NoError(t, err)
	qr1, err := enc.GenerateQRString(1)
	require.NoError(t, err)

	dec := NewDecoder()
	_, _, err = dec.ProcessQR(qr1)
	require.NoError(t, err)
	require.False(t, dec.IsComplete())
	_, _, err = dec.ProcessQR(qr0)
	require.NoError(t, err)
	require.True(t, dec.IsComplete())

	data, err := dec.GetData()
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestDecoderNonMultiple(t *testing.T) {
	payload := make([]byte, 50)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	enc, err := NewEncoder(payload, 32)
	require.NoError(t, err)
	require.Equal(t, 4, enc.ChunkCount())

	dec := NewDecoder()
	for i := 0; i < enc.ChunkCount(); i++ {
		qr, err := enc.GenerateQRString(i)
		require.NoError(t, err)
		_, _, err = dec.ProcessQR(qr)
		require.NoError(t, err)
	}

	data, err := dec.GetData()
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestDecoderDuplicateIdempotent(t *testing.T) {
	enc, err := NewEncoder([]byte("hello, airgap"), 32)
	require.NoError(t, err)
	qr, err := enc.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	for i := 0; i < 5; i++ {
		_, _, err := dec.ProcessQR(qr)
		require.NoError(t, err)
		require.Equal(t, 1, dec.ReceivedChunks())
	}
}

func TestDecoderLateArrivalAfterComplete(t *testing.T) {
	enc, err := NewEncoder([]byte("hi"), 32)
	require.NoError(t, err)
	qr, err := enc.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	_, _, err = dec.ProcessQR(qr)
	require.NoError(t, err)
	require.True(t, dec.IsComplete())

	idx, total, err := dec.ProcessQR(qr)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, total)
}

func TestDecoderSessionMismatch(t *testing.T) {
	encA, err := NewEncoder([]byte("payload A"), 32)
	require.NoError(t, err)
	encB, err := NewEncoder([]byte("payload B"), 32)
	require.NoError(t, err)

	qrA, err := encA.GenerateQRString(0)
	require.NoError(t, err)
	qrB, err := encB.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	idx, total, err := dec.ProcessQR(qrA)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, total)

	_, _, err = dec.ProcessQR(qrB)
	require.True(t, errors.Is(err, ErrSessionMismatch))
	require.Equal(t, 1, dec.ReceivedChunks())
}

func TestDecoderMetadataMismatch(t *testing.T) {
	enc, err := NewEncoder([]byte("0123456789abcdef"), 32)
	require.NoError(t, err)
	qr, err := enc.GenerateQRString(0)
	require.NoError(t, err)

	dec := NewDecoder()
	_, _, err = dec.ProcessQR(qr)
	require.NoError(t, err)

	// Synthetic frame: same session id, different total_chunks.
	forged := serializeFrame(enc.SessionID(), 0, 7, []byte("x"))
	forgedQR := encodeBase45(forged)

	_, _, err = dec.ProcessQR(forgedQR)
	require.True(t, errors.Is(err, ErrMetadataMismatch))
}

func TestDecoderGetDataBeforeComplete(t *testing.T) {
	dec := NewDecoder()
	_, err := dec.GetData()
	require.True(t, errors.Is(err, ErrMissingChunk))
}

func TestDecoderGetDataRejectsUnequalNonFinalLengths(t *testing.T) {
	dec := NewDecoder()
	sessionID := uint32(7)

	qr0 := encodeBase45(serializeFrame(sessionID, 0, 2, make([]byte, 16)))
	qr1 := encodeBase45(serializeFrame(sessionID, 1, 2, make([]byte, 15))) // non-final would be idx0; final is idx1, fine

	_, _, err := dec.ProcessQR(qr0)
	require.NoError(t, err)
	_, _, err = dec.ProcessQR(qr1)
	require.NoError(t, err)
	require.True(t, dec.IsComplete())

	// idx0 (non-final, len 16) and idx1 (final, len 15 <= 16): valid.
	data, err := dec.GetData()
	require.NoError(t, err)
	require.Len(t, data, 31)

	// Now force two non-final chunks of unequal length via a 3-chunk session.
	dec2 := NewDecoder()
	q0 := encodeBase45(serializeFrame(sessionID, 0, 3, make([]byte, 16)))
	q1 := encodeBase45(serializeFrame(sessionID, 1, 3, make([]byte, 10))) // mismatched non-final length
	q2 := encodeBase45(serializeFrame(sessionID, 2, 3, make([]byte, 1)))

	for _, qr := range []string{q0, q1, q2} {
		_, _, err := dec2.ProcessQR(qr)
		require.NoError(t, err)
	}
	require.True(t, dec2.IsComplete())

	_, err = dec2.GetData()
	require.True(t, errors.Is(err, ErrMetadataMismatch))
}

func TestDecoderTotalChunksZeroBeforeFirstFrame(t *testing.T) {
	dec := NewDecoder()
	require.Equal(t, 0, dec.TotalChunks())
}
