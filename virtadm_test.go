package virtadm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "unstable", GetVersion())

	Version = "1.2.3"
	defer func() { Version = "" }()
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), "virtadm")
	assert.Contains(t, Info(), GetBuild())
}
