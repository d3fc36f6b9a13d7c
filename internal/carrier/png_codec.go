package carrier

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/framing"
)

// PNGCodec hides the framed token in the least significant bit of the red
// channel, one bit per pixel in row-major order from the top-left pixel.
type PNGCodec struct{}

// NewPNGCodec creates a PNGCodec.
func NewPNGCodec() *PNGCodec {
	return &PNGCodec{}
}

// Embed returns a losslessly re-encoded PNG carrying token. It fails with
// ErrCapacity when the image has fewer pixels than framed bits. 16-bit images
// stay 16-bit and the bit goes into the low byte of the red sample.
func (c *PNGCodec) Embed(data []byte, token string) ([]byte, error) {
	plane, err := decodeRedPlane(data)
	if err != nil {
		return nil, err
	}

	bits, err := framing.Pack(token)
	if err != nil {
		return nil, err
	}

	if plane.pixels < len(bits) {
		return nil, fmt.Errorf("%w: image has %d pixels, token needs %d", fingerprintDomain.ErrCapacity, plane.pixels, len(bits))
	}

	for i, bit := range bits {
		off := plane.offset(i)
		plane.pix[off] = plane.pix[off]&^1 | bit
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, plane.img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Extract reads one frame from the red channel LSBs.
func (c *PNGCodec) Extract(data []byte) []Candidate {
	plane, err := decodeRedPlane(data)
	if err != nil {
		return nil
	}

	i := 0
	src := framing.SourceFunc(func() (byte, bool) {
		if i >= plane.pixels {
			return 0, false
		}
		off := plane.offset(i)
		i++
		return plane.pix[off] & 1, true
	})

	token, err := framing.Unpack(src, plane.pixels)
	if err != nil {
		return nil
	}
	return []Candidate{{Token: token, Channel: fingerprintDomain.ChannelPixels}}
}

// redPlane exposes the low byte of every red sample of a decoded image in
// row-major order.
type redPlane struct {
	img    image.Image
	pix    []byte
	stride int
	width  int
	pixels int
	// bytes per pixel, and offset of the red low byte within a pixel
	step, lsb int
}

func (p *redPlane) offset(i int) int {
	return (i/p.width)*p.stride + (i%p.width)*p.step + p.lsb
}

// decodeRedPlane decodes a PNG into a non-premultiplied RGBA grid anchored at
// (0, 0). Sources with 16-bit samples decode to NRGBA64, everything else to
// NRGBA.
func decodeRedPlane(data []byte) (*redPlane, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}

	bounds := src.Bounds()
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	plane := &redPlane{width: rect.Dx(), pixels: rect.Dx() * rect.Dy()}

	switch src.(type) {
	case *image.NRGBA64, *image.RGBA64, *image.Gray16:
		img, ok := src.(*image.NRGBA64)
		if !ok || bounds.Min != (image.Point{}) {
			img = image.NewNRGBA64(rect)
			draw.Draw(img, rect, src, bounds.Min, draw.Src)
		}
		// Samples are big-endian, so the red low byte follows the high byte.
		plane.img, plane.pix, plane.stride = img, img.Pix, img.Stride
		plane.step, plane.lsb = 8, 1
	default:
		img, ok := src.(*image.NRGBA)
		if !ok || bounds.Min != (image.Point{}) {
			img = image.NewNRGBA(rect)
			draw.Draw(img, rect, src, bounds.Min, draw.Src)
		}
		plane.img, plane.pix, plane.stride = img, img.Pix, img.Stride
		plane.step, plane.lsb = 4, 0
	}
	return plane, nil
}
