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

// Command airgapctl drives the airgap encoder and decoder from the shell,
// the way the Objective-C facade would drive them on a device: it is a
// thin, idiomatic Go front-end over the library, not part of the protocol
// core itself.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mandrika/airgap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := airgap.ErrorCode(err)
		fmt.Fprintf(os.Stderr, "airgapctl: %v (code %d)\n", err, code)
		if code == airgap.CodeOK {
			os.Exit(1)
		}
		os.Exit(int(-code))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "airgapctl",
		Short: "Encode and decode airgap QR transfers",
	}
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	return root
}

func configureLogging(level, format string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(lvl)
	}
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}
