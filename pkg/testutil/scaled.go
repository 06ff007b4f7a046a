package testutil

import (
	"os"
	"strconv"
	"time"
)

// TimeScaleEnv names the environment variable that scales timeouts in tests,
// for slow machines.
const TimeScaleEnv = "WKBENCH_TEST_TIME_SCALE"

// Scaled returns d scaled by $WKBENCH_TEST_TIME_SCALE. A missing or invalid
// scale is treated as 1.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * timeScale())
}

func timeScale() float64 {
	s := os.Getenv(TimeScaleEnv)
	if s == "" {
		return 1
	}
	scale, err := strconv.ParseFloat(s, 64)
	if err != nil || scale <= 0 {
		return 1
	}
	return scale
}
