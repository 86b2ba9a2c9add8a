// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLogErrors_StopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	errs <- errors.New("decode stream: boom")

	done := make(chan struct{})
	go func() {
		logErrors(ctx, errs)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logErrors kept running after cancel")
	}
}
