package ppu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y64sim/emu"
	"github.com/sarchlab/y64sim/ppu"
)

// writeSprite fills sprite record i: bitmap address, height, width and
// screen position.
func writeSprite(p *ppu.PPU, i int, addr uint64, height, width, x, y byte) {
	base := uint64(i * 12)
	for b := uint64(0); b < 8; b++ {
		p.Write(base+b, byte(addr>>(b*8)))
	}
	p.Write(base+8, height)
	p.Write(base+9, width)
	p.Write(base+10, x)
	p.Write(base+11, y)
}

var _ = Describe("PPU", func() {
	var (
		bus *emu.Bus
		ram *emu.RAM
		p   *ppu.PPU
	)

	BeforeEach(func() {
		bus = emu.NewBus()

		var err error
		ram, err = emu.NewRAM(64)
		Expect(err).NotTo(HaveOccurred())
		Expect(bus.Register(ram, 0, ram.Size())).To(Succeed())

		p = ppu.New(bus)
	})

	Describe("Device contract", func() {
		It("should store and return sprite-table bytes", func() {
			p.Write(5, 0xAA)
			Expect(p.Read(5)).To(Equal(byte(0xAA)))
		})

		It("should read zero out of range and drop writes there", func() {
			p.Write(ppu.MemSize, 0xAA)
			Expect(p.Read(ppu.MemSize)).To(Equal(byte(0)))
			Expect(p.Read(ppu.MemSize + 100)).To(Equal(byte(0)))
		})
	})

	Describe("Update", func() {
		It("should composite a bit-packed sprite", func() {
			// 3x5 triangle, rows packed contiguously:
			// row 0: 00001
			// row 1: 00011
			// row 2: 00111
			ram.Write(0, 0x10)
			ram.Write(1, 0x73)
			writeSprite(p, 0, 0, 3, 5, 0, 0)

			p.Update()
			frame := p.Frame()

			Expect(ppu.PixelOn(frame, 4, 0)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 3, 1)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 4, 1)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 2, 2)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 3, 2)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 4, 2)).To(BeTrue())

			Expect(ppu.PixelOn(frame, 0, 0)).To(BeFalse())
			Expect(ppu.PixelOn(frame, 1, 2)).To(BeFalse())
		})

		It("should skip disabled sprites", func() {
			ram.Write(0, 0xFF)
			writeSprite(p, 0, 0, 0, 5, 0, 0) // zero height
			writeSprite(p, 1, 0, 3, 0, 0, 0) // zero width

			p.Update()

			Expect(p.Frame()).To(Equal(make([]byte, ppu.FrameBytes)))
		})

		It("should place a sprite at its screen position", func() {
			ram.Write(0, 0x01) // single pixel
			writeSprite(p, 0, 0, 1, 1, 10, 20)

			p.Update()
			frame := p.Frame()

			Expect(ppu.PixelOn(frame, 10, 20)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 0, 0)).To(BeFalse())
		})

		It("should clip pixels outside the display", func() {
			// 2x2 solid sprite hanging off the bottom-right corner.
			ram.Write(0, 0x0F)
			writeSprite(p, 0, 0, 2, 2, 119, 29)

			p.Update()
			frame := p.Frame()

			Expect(ppu.PixelOn(frame, 119, 29)).To(BeTrue())
			// The three clipped pixels fall outside the frame; nothing
			// else may light up.
			count := 0
			for y := 0; y < ppu.ScreenHeight; y++ {
				for x := 0; x < ppu.ScreenWidth; x++ {
					if ppu.PixelOn(frame, x, y) {
						count++
					}
				}
			}
			Expect(count).To(Equal(1))
		})

		It("should treat bus address errors as off pixels", func() {
			// Bitmap address far outside the mapped RAM.
			writeSprite(p, 0, 0x10000, 2, 2, 0, 0)

			p.Update()

			Expect(p.Frame()).To(Equal(make([]byte, ppu.FrameBytes)))
		})

		It("should be idempotent for identical input", func() {
			ram.Write(0, 0x10)
			ram.Write(1, 0x73)
			writeSprite(p, 0, 0, 3, 5, 0, 0)

			p.Update()
			first := p.Frame()
			p.Update()
			second := p.Frame()

			Expect(second).To(Equal(first))
		})

		It("should composite every enabled sprite record", func() {
			ram.Write(0, 0x01)
			writeSprite(p, 0, 0, 1, 1, 3, 3)
			writeSprite(p, 7, 0, 1, 1, 4, 3)

			p.Update()
			frame := p.Frame()

			Expect(ppu.PixelOn(frame, 3, 3)).To(BeTrue())
			Expect(ppu.PixelOn(frame, 4, 3)).To(BeTrue())
		})
	})

	Describe("Present", func() {
		It("should invoke the render hook only when the frame changes", func() {
			presents := 0
			p = ppu.New(bus, ppu.WithRenderFunc(func(frame []byte) {
				presents++
			}))

			ram.Write(0, 0x01)
			writeSprite(p, 0, 0, 1, 1, 0, 0)

			p.Update()
			Expect(presents).To(Equal(1))

			// Identical frame: no present.
			p.Update()
			Expect(presents).To(Equal(1))

			// Moving the sprite changes the frame.
			p.Write(10, 5)
			p.Update()
			Expect(presents).To(Equal(2))
		})

		It("should hand the hook the composited front buffer", func() {
			var got []byte
			p = ppu.New(bus, ppu.WithRenderFunc(func(frame []byte) {
				got = append([]byte(nil), frame...)
			}))

			ram.Write(0, 0x01)
			writeSprite(p, 0, 0, 1, 1, 2, 0)

			p.Update()

			Expect(got).To(HaveLen(ppu.FrameBytes))
			Expect(ppu.PixelOn(got, 2, 0)).To(BeTrue())
		})
	})
})
