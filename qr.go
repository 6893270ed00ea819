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
	"bytes"

	pkgerrors "github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// qrModuleSize and qrQuietZone are module size (px) and quiet-zone width
// (modules) for rendered PNGs, chosen to scan reliably at
// RecommendedMaxChunkSize character lengths on commodity phone cameras.
const (
	qrModuleSize = 6
	qrQuietZone  = 4
)

// nopWriteCloser adapts a bytes.Buffer to io.WriteCloser so go-qrcode's
// standard writer can render into memory instead of a file path.
type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

// renderPNG renders the base45 string qrString as a PNG-encoded QR code at
// alphanumeric encoding mode and medium error correction, matching the
// wire alphabet (base45 is a subset of QR alphanumeric mode).
func renderPNG(qrString string) ([]byte, error) {
	qrc, err := qrcode.NewWith(qrString,
		qrcode.WithEncodingMode(qrcode.EncModeAlphanumeric),
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	)
	if err != nil {
		return nil, wrapError(ErrUnknown, pkgerrors.WithStack(err))
	}

	buf := &bytes.Buffer{}
	w, err := standard.NewWithWriter(
		nopWriteCloser{buf},
		standard.WithQRWidth(qrModuleSize),
		standard.WithBorderWidth(qrQuietZone),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err != nil {
		return nil, wrapError(ErrUnknown, pkgerrors.WithStack(err))
	}

	if err := qrc.Save(w); err != nil {
		return nil, wrapError(ErrUnknown, pkgerrors.WithStack(err))
	}

	return buf.Bytes(), nil
}
