// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/js-arias/phylofunk/logging"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, true)
	logger.Debug("marked nodes", zap.Int("targets", 3))
	logger.Sync()

	out := buf.String()
	for _, want := range []string{"DEBUG", "marked nodes", `"targets": 3`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q: expecting %q", out, want)
		}
	}

	buf.Reset()
	logger = logging.New(&buf, false)
	logger.Info("discarded")
	if buf.Len() != 0 {
		t.Errorf("quiet logger: got output %q", buf.String())
	}
}
