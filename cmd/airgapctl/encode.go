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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mandrika/airgap"
	"github.com/mandrika/airgap/internal/config"
)

func newEncodeCmd() *cobra.Command {
	var chunkSize int
	var outDir string
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Split a file into airgap QR frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			configureLogging(cfg.LogLevel, cfg.LogFormat)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}

			enc, err := airgap.NewEncoder(data, cfg.ChunkSize)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
				return errors.Wrapf(err, "create %s", cfg.OutDir)
			}

			for i := 0; i < enc.ChunkCount(); i++ {
				png, err := enc.GeneratePNG(i)
				if err != nil {
					return err
				}
				qr, err := enc.GenerateQRString(i)
				if err != nil {
					return err
				}

				pngPath := filepath.Join(cfg.OutDir, fmt.Sprintf("chunk-%04d.png", i))
				txtPath := filepath.Join(cfg.OutDir, fmt.Sprintf("chunk-%04d.txt", i))
				if err := os.WriteFile(pngPath, png, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", pngPath)
				}
				if err := os.WriteFile(txtPath, []byte(qr), 0o644); err != nil {
					return errors.Wrapf(err, "write %s", txtPath)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "session %08x: %d chunks written to %s\n",
				enc.SessionID(), enc.ChunkCount(), cfg.OutDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "total frame size in bytes (header + payload)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory to write chunk-NNNN.png/.txt into")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "logrus level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "logrus formatter (text, json)")
	return cmd
}
