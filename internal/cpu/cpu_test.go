package cpu

import (
	"testing"

	"github.com/adtennant/gameboy/internal/addr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBus struct {
	mem [0x10000]byte
}

func (b *testBus) Read(address uint16) byte  { return b.mem[address] }
func (b *testBus) Write(address uint16, v byte) { b.mem[address] = v }

func (b *testBus) load(pc uint16, bytes ...byte) {
	for i, v := range bytes {
		b.mem[pc+uint16(i)] = v
	}
}

type testInterrupts struct {
	ie, ifReg uint8
}

func (t *testInterrupts) Pending() uint8 {
	return t.ie & t.ifReg & 0x1F
}

func (t *testInterrupts) Clear(kind addr.Interrupt) {
	t.ifReg &^= 1 << kind.Bit()
}

func newTestCPU() (*CPU, *testBus, *testInterrupts) {
	c := New()
	return c, &testBus{}, &testInterrupts{}
}

func TestBootRegisterState(t *testing.T) {
	c := New()
	assert.Equal(t, uint8(0x01), c.A)
	assert.Equal(t, uint16(0x0013), c.BC())
	assert.Equal(t, uint16(0x00D8), c.DE())
	assert.Equal(t, uint16(0x014D), c.HL())
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint16(0x0100), c.PC)
	assert.True(t, c.IME)
}

func TestAFRoundTripMasksLowNibble(t *testing.T) {
	c := New()
	for f := 0; f < 256; f++ {
		c.SetAF(combine(0x42, uint8(f)))
		assert.Equal(t, uint16(0), c.AF()&0x000F, "low nibble of F must always read back as zero")
	}
}

func TestIncDecFlagSemantics(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.B = 0x0F
	bus.load(c.PC, 0x04) // INC B
	_, err := c.Step(bus, &testInterrupts{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), c.B)
	assert.True(t, c.GetFlag(FlagH))
	assert.False(t, c.GetFlag(FlagZ))

	c.B = 0x01
	bus.load(c.PC, 0x05) // DEC B
	_, err = c.Step(bus, &testInterrupts{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), c.B)
	assert.True(t, c.GetFlag(FlagZ))
	assert.True(t, c.GetFlag(FlagN))
}

func TestPushPopRoundTrip(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.SetBC(0xBEEF)
	bus.load(c.PC, 0xC5) // PUSH BC
	_, err := c.Step(bus, ic)
	require.NoError(t, err)

	c.SetDE(0x0000)
	bus.load(c.PC, 0xD1) // POP DE
	_, err = c.Step(bus, ic)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), c.DE())
}

func TestUndefinedOpcodeReturnsError(t *testing.T) {
	c, bus, ic := newTestCPU()
	bus.load(c.PC, 0xD3)
	_, err := c.Step(bus, ic)
	require.Error(t, err)
	var undef *UndefinedOpcodeError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, uint8(0xD3), undef.Opcode)
}

func TestInterruptDispatchPushesPCAndJumps(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.PC = 0x1234
	c.IME = true
	ic.ie = 0x01
	ic.ifReg = 0x01 // VBlank pending

	cycles, err := c.Step(bus, ic)
	require.NoError(t, err)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x40), c.PC)
	assert.False(t, c.IME)
	assert.Equal(t, uint8(0), ic.ifReg)

	assert.Equal(t, uint16(0x1234), c.pop(bus))
}

func TestHaltResumesOnPendingInterruptEvenIfIMEClear(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.IME = false
	bus.load(c.PC, 0x76) // HALT
	_, err := c.Step(bus, ic)
	require.NoError(t, err)
	assert.True(t, c.halted)

	ic.ie = 0x01
	ic.ifReg = 0x01
	_, err = c.Step(bus, ic)
	require.NoError(t, err)
	assert.False(t, c.halted)
}

func TestEITakesEffectImmediately(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.IME = false
	bus.load(c.PC, 0xFB) // EI
	_, err := c.Step(bus, ic)
	require.NoError(t, err)
	assert.True(t, c.IME, "EI must enable IME on the instruction it executes, per the documented simplification")
}

func TestDAAAfterBCDAdd(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.A = 0x09
	bus.load(c.PC, 0xC6, 0x09) // ADD A,0x09 -> A=0x12, H set
	_, err := c.Step(bus, ic)
	require.NoError(t, err)

	bus.load(c.PC, 0x27) // DAA
	_, err = c.Step(bus, ic)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x18), c.A)
}

func TestJRNegativeOffset(t *testing.T) {
	c, bus, ic := newTestCPU()
	c.PC = 0x0200
	bus.load(c.PC, 0x18, 0xFE) // JR -2 -> back to itself
	_, err := c.Step(bus, ic)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0200), c.PC)
}
