package nes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawHeader(prgBanks, chrBanks, ctrl1, ctrl2 byte) []byte {
	return []byte{'N', 'E', 'S', 0x1A, prgBanks, chrBanks, ctrl1, ctrl2, 0, 0, 0, 0, 0, 0, 0, 0}
}

func TestLoadINES(t *testing.T) {
	t.Run("rejects a short read", func(t *testing.T) {
		_, err := LoadINES(bytes.NewReader([]byte{'N', 'E', 'S', 0x1A, 0, 0, 0, 0}))
		require.Error(t, err)
	})

	t.Run("rejects bad magic", func(t *testing.T) {
		bad := rawHeader(1, 1, 0, 0)
		bad[1] = 'O'
		_, err := LoadINES(bytes.NewReader(append(bad, make([]byte, 16384+8192)...)))
		require.ErrorIs(t, err, errNoMagic)
	})

	t.Run("loads a single PRG bank with a synthesized CHR bank", func(t *testing.T) {
		header := rawHeader(1, 0, 0, 0)
		prg := bytes.Repeat([]byte{0x42}, prgBankSize)
		rom := append(header, prg...)

		cart, err := LoadINES(bytes.NewReader(rom))
		require.NoError(t, err)
		require.Len(t, cart.PRG, prgBankSize)
		require.Len(t, cart.CHR, chrBankSize)
	})

	t.Run("loads PRG and CHR banks together", func(t *testing.T) {
		header := rawHeader(2, 1, 0, 0)
		prg := bytes.Repeat([]byte{0x11}, 2*prgBankSize)
		chr := bytes.Repeat([]byte{0x22}, chrBankSize)
		rom := append(append(header, prg...), chr...)

		cart, err := LoadINES(bytes.NewReader(rom))
		require.NoError(t, err)
		require.Len(t, cart.PRG, 2*prgBankSize)
		require.Len(t, cart.CHR, chrBankSize)
	})

	t.Run("decodes a split mapper number", func(t *testing.T) {
		// mapper 0x7A: low nibble 0xA in control1's high nibble, high
		// nibble 0x7 in control2's high nibble.
		header := rawHeader(1, 0, 0xA0, 0x70)
		prg := bytes.Repeat([]byte{0}, prgBankSize)
		rom := append(header, prg...)

		cart, err := LoadINES(bytes.NewReader(rom))
		require.NoError(t, err)
		require.Equal(t, byte(0x7A), cart.Mapper)
	})
}

func TestCartridgeReadMirrorsSingleBank(t *testing.T) {
	cart := &Cartridge{PRG: bytes.Repeat([]byte{0}, prgBankSize)}
	cart.PRG[0] = 0xAB
	cart.PRG[1] = 0xCD

	v, err := cart.Read(0)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), v)

	// 16KiB bank mirrored across the 32KiB window: local 0x4000 wraps to 0.
	v, err = cart.Read(prgBankSize)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), v)

	v, err = cart.Read(prgBankSize + 1)
	require.NoError(t, err)
	require.Equal(t, byte(0xCD), v)
}

func TestCartridgeReadEmptyIsBadAddress(t *testing.T) {
	cart := &Cartridge{}
	_, err := cart.Read(0x10)
	require.Error(t, err)
	var bad *BadAddress
	require.ErrorAs(t, err, &bad)
}

func TestCartridgeWriteIsNoOp(t *testing.T) {
	cart := &Cartridge{PRG: bytes.Repeat([]byte{0x00}, prgBankSize)}
	require.NoError(t, cart.Write(0, 0xFF))
	require.Equal(t, byte(0x00), cart.PRG[0])
}
