package nes

import (
	"testing"

	"github.com/rincewound/ricones/diag"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	reads  map[uint16]byte
	writes map[uint16]byte
}

func newStubHandler() *stubHandler {
	return &stubHandler{reads: map[uint16]byte{}, writes: map[uint16]byte{}}
}

func (s *stubHandler) Read(local uint16) (byte, error) {
	return s.reads[local], nil
}

func (s *stubHandler) Write(local uint16, v byte) error {
	s.writes[local] = v
	return nil
}

func TestBusRegisterTranslatesToLocalCoordinates(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	h := newStubHandler()
	h.reads[0x10] = 0x55
	bus.Register(0x2000, 0x2FFF, h)

	v, err := bus.Read8(0x2010)
	require.NoError(t, err)
	require.Equal(t, byte(0x55), v)

	require.NoError(t, bus.Write8(0x2010, 0xAA))
	require.Equal(t, byte(0xAA), h.writes[0x10])
}

func TestBusFirstRegisteredWinsOnOverlap(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	first := newStubHandler()
	first.reads[0] = 1
	second := newStubHandler()
	second.reads[0] = 2

	bus.Register(0x0000, 0x00FF, first)
	bus.Register(0x0000, 0xFFFF, second)

	v, err := bus.Read8(0x0000)
	require.NoError(t, err)
	require.Equal(t, byte(1), v)
}

func TestBusReadUnmappedIsFatalBadAddress(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	_, err := bus.Read8(0x5000)
	require.Error(t, err)
	var bad *BadAddress
	require.ErrorAs(t, err, &bad)
	require.False(t, bad.Write)
}

func TestBusWriteUnmappedIsLoggedNotFatal(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	err := bus.Write8(0x5000, 0x01)
	require.Error(t, err)
	var bad *BadAddress
	require.ErrorAs(t, err, &bad)
	require.True(t, bad.Write)
}

func TestBusRead16LittleEndian(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	ram := NewRAM()
	bus.Register(0x0000, 0x1FFF, ram)

	require.NoError(t, bus.Write8(0x10, 0x34))
	require.NoError(t, bus.Write8(0x11, 0x12))

	v, err := bus.Read16(0x10)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
}

func TestBusTickAggregatesStrongestInterrupt(t *testing.T) {
	bus := NewBus(diag.NewRing(8))
	log := diag.NewRing(8)
	ppu := NewPPU(log)
	ppu.Ctrl |= ctrlGenerateNMI
	bus.Register(0x2000, 0x3FFF, ppu)

	// See ppu_test.go's vblankTicks: 200 Tick(96) calls is the exact call
	// count that lands the cumulative scanline advance on line 225, where
	// VBlank is set.
	var signal Interrupt
	for i := 0; i < 200; i++ {
		signal = bus.Tick(96)
	}
	require.Equal(t, NMI, signal)
}

func TestBusTriggerOAMDMACopies256Bytes(t *testing.T) {
	log := diag.NewRing(8)
	bus := NewBus(log)
	ram := NewRAM()
	bus.Register(0x0000, 0x1FFF, ram)
	ppu := NewPPU(log)
	bus.Register(0x2000, 0x3FFF, ppu)

	for i := 0; i < 256; i++ {
		require.NoError(t, bus.Write8(0x0200+uint16(i), byte(i)))
	}

	require.NoError(t, bus.TriggerOAMDMA(0x02))
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), ppu.oam[i])
	}
}
