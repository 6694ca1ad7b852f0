// Package cartridge loads a Game Boy ROM image and exposes banked
// slices of it to the memory bus.
package cartridge

import "fmt"

const (
	// MaxROMSize is the largest ROM image the loader will accept.
	MaxROMSize = 2 * 1024 * 1024

	headerStart = 0x0100
	headerEnd   = 0x0150

	bankSize = 0x4000
)

// Header holds the parsed fields of the 0100-014F cartridge header.
type Header struct {
	Title        string
	Logo         [48]byte
	CartType     uint8
	ROMSizeCode  uint8
	RAMSizeCode  uint8
	Destination  uint8
	Licensee     uint8
	Version      uint8
	Checksum     uint8
}

// Cartridge holds the full ROM image and the parsed header.
type Cartridge struct {
	data   []byte
	Header Header
}

// Load reads raw ROM bytes, validates their size, and parses the header.
func Load(data []byte) (*Cartridge, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("cartridge: ROM too short: %d bytes (need at least %d)", len(data), headerEnd)
	}
	if len(data) > MaxROMSize {
		return nil, fmt.Errorf("cartridge: ROM too large: %d bytes (max %d)", len(data), MaxROMSize)
	}

	c := &Cartridge{
		data: append([]byte(nil), data...),
	}
	c.parseHeader()
	return c, nil
}

func (c *Cartridge) parseHeader() {
	h := &c.Header
	title := c.data[headerStart+0x34 : headerStart+0x44]
	end := len(title)
	for end > 0 && title[end-1] == 0 {
		end--
	}
	h.Title = string(title[:end])
	copy(h.Logo[:], c.data[headerStart+0x04:headerStart+0x34])
	h.CartType = c.data[headerStart+0x47]
	h.ROMSizeCode = c.data[headerStart+0x48]
	h.RAMSizeCode = c.data[headerStart+0x49]
	h.Destination = c.data[headerStart+0x4A]
	h.Licensee = c.data[headerStart+0x4B]
	h.Version = c.data[headerStart+0x4C]
	h.Checksum = c.data[headerStart+0x4D]
}

// BankZero returns the fixed 0000-3FFF window.
func (c *Cartridge) BankZero() []byte {
	if len(c.data) < bankSize {
		padded := make([]byte, bankSize)
		copy(padded, c.data)
		return padded
	}
	return c.data[:bankSize]
}

// BankCount reports how many 16 KiB ROM banks the image contains (at
// least 2, so bank 1 is always addressable even for tiny images).
func (c *Cartridge) BankCount() int {
	n := (len(c.data) + bankSize - 1) / bankSize
	if n < 2 {
		n = 2
	}
	return n
}

// ReadBank returns the byte at offset within the given 16 KiB bank
// number (bank 0 included, though the bus never routes bank 0 here).
func (c *Cartridge) ReadBank(bank int, offset uint16) uint8 {
	base := bank * bankSize
	idx := base + int(offset)
	if idx < 0 || idx >= len(c.data) {
		return 0xFF
	}
	return c.data[idx]
}

// Size returns the number of bytes in the loaded image.
func (c *Cartridge) Size() int {
	return len(c.data)
}
