package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterWriteReadRoundTrip(t *testing.T) {
	a := New()
	a.Write(0xFF12, 0x77)
	assert.Equal(t, byte(0x77), a.Read(0xFF12))
}

func TestWaveRAMRoundTrip(t *testing.T) {
	a := New()
	a.Write(0xFF30, 0xAB)
	a.Write(0xFF3F, 0xCD)
	assert.Equal(t, byte(0xAB), a.Read(0xFF30))
	assert.Equal(t, byte(0xCD), a.Read(0xFF3F))
}

func TestUnmappedAddressReturns0xFF(t *testing.T) {
	a := New()
	assert.Equal(t, byte(0xFF), a.Read(0xFF15))
}

func TestInitialNR52Reflectsbootstate(t *testing.T) {
	a := New()
	assert.Equal(t, byte(0xF1), a.NR52)
}
