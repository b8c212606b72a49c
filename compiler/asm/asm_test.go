package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLow8(t *testing.T) {
	assert.Equal(t, AL, EAX.Low8())
	assert.Equal(t, CL, ECX.Low8())
	assert.Equal(t, DL, EDX.Low8())

	assert.Panics(t, func() { AL.Low8() })
}
