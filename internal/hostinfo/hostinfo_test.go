package hostinfo_test

import (
	"testing"

	"codeberg.org/renvik/pistat/internal/hostinfo"
	"github.com/stretchr/testify/assert"
)

func TestFiltered(t *testing.T) {
	assert.True(t, hostinfo.Filtered("127.0.0.1"))
	assert.True(t, hostinfo.Filtered("127.1.2.3"))
	assert.True(t, hostinfo.Filtered("169.254.10.20"))
	assert.False(t, hostinfo.Filtered("192.168.1.5"))
	assert.False(t, hostinfo.Filtered("10.0.0.1"))
	assert.False(t, hostinfo.Filtered("169.200.0.1"))
}
