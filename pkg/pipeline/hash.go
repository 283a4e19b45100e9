package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
	"io"

	"github.com/matzehuels/texatlas/pkg/source"
)

// hashSources hashes everything besides the layout that ends up in an
// artifact: sprite names, the manifest image name, and sprite pixels.
func hashSources(sprites []source.Sprite, imageName string) string {
	h := sha256.New()
	writeString := func(s string) {
		_ = binary.Write(h, binary.LittleEndian, uint32(len(s)))
		h.Write([]byte(s))
	}

	writeString(imageName)
	for _, s := range sprites {
		writeString(s.Name)
		hashPixels(h, s.Image)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashPixels(w io.Writer, img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	_ = binary.Write(w, binary.LittleEndian, [2]int32{int32(b.Dx()), int32(b.Dy())})

	switch m := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := m.PixOffset(b.Min.X, y)
			w.Write(m.Pix[off : off+4*b.Dx()])
		}
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := m.PixOffset(b.Min.X, y)
			w.Write(m.Pix[off : off+4*b.Dx()])
		}
	default:
		row := make([]byte, 0, 8*b.Dx())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row = row[:0]
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := img.At(x, y).RGBA()
				row = binary.LittleEndian.AppendUint16(row, uint16(r))
				row = binary.LittleEndian.AppendUint16(row, uint16(g))
				row = binary.LittleEndian.AppendUint16(row, uint16(bl))
				row = binary.LittleEndian.AppendUint16(row, uint16(a))
			}
			w.Write(row)
		}
	}
}
