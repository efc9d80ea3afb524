package display

import "time"

// SetSleepForTest replaces the splash hold sleep so tests do not block.
func SetSleepForTest(s *Session, sleep func(time.Duration)) {
	s.sleep = sleep
}
