// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaonline/internal/listener"
)

/*
TestDelay checks the reconnect schedule: immediate first retry, doubling from
one second, capped at thirty.
*/
func TestDelay(t *testing.T) {
	want := []time.Duration{
		0,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for index, expected := range want {
		assert.Equal(t, expected, listener.Delay(index+1), "attempt %d", index+1)
	}

	assert.Equal(t, time.Duration(0), listener.Delay(0))
	assert.Equal(t, 30*time.Second, listener.Delay(100))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", listener.StateConnecting.String())
	assert.Equal(t, "reconnecting", listener.StateReconnecting.String())
	assert.Equal(t, "unknown", listener.State(42).String())
}
