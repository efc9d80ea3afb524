package power

import "codeberg.org/renvik/pistat/internal/errors"

const (
	// Vendor tool errors
	ErrToolFailed     = errors.ErrorCode("power_tool_failed")
	ErrThrottleStatus = errors.ErrorCode("throttle_status_failed")
	ErrBadBitmask     = errors.ErrorCode("throttle_bitmask_invalid")

	// Sensor errors
	ErrSensorOpen = errors.ErrorCode("power_sensor_open_failed")
	ErrSensorRead = errors.ErrorCode("power_sensor_read_failed")
)
