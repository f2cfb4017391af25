package loop

import "time"

// Session tuning.
const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS

	settleDuration = 200 * time.Millisecond
)
