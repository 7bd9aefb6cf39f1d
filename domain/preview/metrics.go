package preview

import "time"

// Stats summarises relay behaviour for instrumentation.
type Stats struct {
	Frames         uint64
	AvgRead        time.Duration
	LastFrame      time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}
