// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import "time"

const (
	baseDelay = time.Second
	maxDelay  = 30 * time.Second
)

/*
Delay returns how long to wait before reconnect attempt n (1-based).

The first retry is immediate. Later attempts double from one second and are
capped at thirty: 0, 1s, 2s, 4s, 8s, 16s, 30s, 30s...
*/
func Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delay := baseDelay
	for step := 2; step < attempt; step++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return delay
}
