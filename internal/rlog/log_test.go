// Copyright © 2017 Heptio
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger(buf *bytes.Buffer, debug bool) Logger {
	l := logrus.New()
	l.Out = buf
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	return NewLogrus(logrus.NewEntry(l), debug)
}

func TestInfofAlwaysEmittedAtDefaultVerbosity(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, false)
	log.Infof("hello %s", "world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
}

func TestVerboseSuppressedWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, false)
	log.V(1).Infof("verbose detail")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}
}

func TestVerboseEmittedWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, true)
	log.V(1).Infof("verbose detail")
	if !strings.Contains(buf.String(), "verbose detail") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
}

func TestWithPrefixAddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, false).WithPrefix("map-poller")
	log.Infof("tick")
	if !strings.Contains(buf.String(), "component=map-poller") {
		t.Fatalf("expected component field in output, got %q", buf.String())
	}
}
