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
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mandrika/airgap"
	"github.com/mandrika/airgap/internal/config"
)

func newDecodeCmd() *cobra.Command {
	var output string
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "decode <strings-file-or-dir>",
		Short: "Reassemble a file from scanned airgap QR strings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			configureLogging(cfg.LogLevel, cfg.LogFormat)

			lines, err := readQRStrings(args[0])
			if err != nil {
				return err
			}

			dec := airgap.NewDecoder()
			for _, line := range lines {
				if _, _, err := dec.ProcessQR(line); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip frame: %v\n", err)
					continue
				}
				if dec.IsComplete() {
					break
				}
			}

			if !dec.IsComplete() {
				return fmt.Errorf("decode incomplete: %d/%d chunks received",
					dec.ReceivedChunks(), dec.TotalChunks())
			}

			data, err := dec.GetData()
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "file to write reassembled payload to (default stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "logrus level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "logrus formatter (text, json)")
	return cmd
}

// readQRStrings reads newline-separated base45 strings from path if it is a
// file, or the contents of every *.txt file in path if it is a directory
// (matching the sidecar layout airgapctl encode writes).
func readQRStrings(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	var lines []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read dir %s", path)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, errors.Wrapf(err, "read %s", entry.Name())
			}
			lines = append(lines, string(data))
		}
		return lines, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
