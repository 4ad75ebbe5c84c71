package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type bufSink struct {
	bytes []byte
}

func (b *bufSink) WriteByte(c byte) {
	b.bytes = append(b.bytes, c)
}

func TestTransferEmitsByteAfter8Cycles(t *testing.T) {
	sink := &bufSink{}
	p := New(sink)
	p.SB = 0x42
	p.SC = 0x81

	irq := p.Step(4)
	assert.False(t, irq)
	irq = p.Step(4)
	assert.True(t, irq)

	assert.Equal(t, []byte{0x42}, sink.bytes)
	assert.Equal(t, uint8(0xFF), p.SB)
	assert.Equal(t, uint8(0x01), p.SC)
}

func TestNoTransferWithoutStartBit(t *testing.T) {
	sink := &bufSink{}
	p := New(sink)
	p.SC = 0x01
	irq := p.Step(100)
	assert.False(t, irq)
	assert.Empty(t, sink.bytes)
}

func TestDefaultSinkIsStdout(t *testing.T) {
	p := New(nil)
	assert.IsType(t, StdoutSink{}, p.sink)
}
