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

import "github.com/sirupsen/logrus"

// defaultLogger is the package-level logger used by encoders and decoders
// that are not given a WithEncoderLogger or WithDecoderLogger option of
// their own. Callers embedding
// this module into a larger service should configure logrus's standard
// logger (level, formatter, output) once at process startup; the package
// never calls logrus.SetOutput/SetLevel itself.
var defaultLogger = logrus.NewEntry(logrus.StandardLogger())
