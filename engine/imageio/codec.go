// Package imageio is the pixel I/O adapter: it loads 8-bit, 16-bit and Radiance HDR
// images into interleaved buffers and saves 8-bit RGBA buffers as PNG.
package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/imgio"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidBuffer is returned when a pixel buffer is shorter than its declared dimensions.
var ErrInvalidBuffer = errors.New("pixel buffer smaller than width*height*channels")

// ChannelMode selects the number of interleaved components produced by a load.
type ChannelMode int

const (
	// ChannelsGrey produces one luminance component per pixel.
	ChannelsGrey ChannelMode = 1
	// ChannelsGreyAlpha produces luminance and alpha.
	ChannelsGreyAlpha ChannelMode = 2
	// ChannelsRGB produces red, green and blue.
	ChannelsRGB ChannelMode = 3
	// ChannelsRGBA produces red, green, blue and alpha.
	ChannelsRGBA ChannelMode = 4
)

// Image8 is an interleaved 8-bit pixel buffer.
type Image8 struct {
	Width, Height, Channels int
	Pix                     []byte
}

// Image16 is an interleaved 16-bit pixel buffer.
type Image16 struct {
	Width, Height, Channels int
	Pix                     []uint16
}

// ImageF32 is an interleaved floating-point RGB buffer decoded from a Radiance HDR file.
type ImageF32 struct {
	Width, Height int
	Pix           []float32
}

// Channels returns the component count of an HDR buffer, which is always 3.
func (im *ImageF32) Channels() int { return 3 }

// Pixels is a decoded in-memory image in its native bit depth.
// 16-bit components are stored little-endian, two bytes each.
type Pixels struct {
	Width, Height, Channels, BitDepth int
	Data                              []byte
}

// codec is the implementation of the Codec interface.
type codec struct {
	log *zap.Logger
}

// Codec defines the image codec collaborator used by the loader and the CLI.
type Codec interface {
	// Load8 decodes an image file into an 8-bit buffer with 3 or 4 channels.
	// ChannelsRGBA yields 4 channels; any other mode yields 3.
	// When flip is set the rows are written bottom-up while decoding.
	//
	// Parameters:
	//   - path: the image file
	//   - mode: the requested channel mode
	//   - flip: whether to flip vertically
	//
	// Returns:
	//   - *Image8: the decoded buffer
	//   - error: error if the file cannot be opened or decoded
	Load8(path string, mode ChannelMode, flip bool) (*Image8, error)

	// Load16 decodes an image file into a 16-bit buffer with mode channels.
	//
	// Parameters:
	//   - path: the image file
	//   - mode: the requested channel mode (1-4)
	//   - flip: whether to flip vertically
	//
	// Returns:
	//   - *Image16: the decoded buffer
	//   - error: error if the file cannot be opened or decoded
	Load16(path string, mode ChannelMode, flip bool) (*Image16, error)

	// LoadHDR decodes a Radiance RGBE file into a 3-channel float buffer.
	// Unlike Load8 and Load16 the flip is applied after the whole image is decoded.
	//
	// Parameters:
	//   - path: the .hdr file
	//   - flip: whether to flip vertically
	//
	// Returns:
	//   - *ImageF32: the decoded buffer
	//   - error: error if the header or a scanline is malformed
	LoadHDR(path string, flip bool) (*ImageF32, error)

	// Decode decodes an in-memory encoded image (PNG, JPEG, ...) keeping 16-bit precision when present.
	//
	// Parameters:
	//   - data: the encoded image bytes
	//
	// Returns:
	//   - *Pixels: the decoded pixels
	//   - error: error if the format is unknown or the data is corrupt
	Decode(data []byte) (*Pixels, error)

	// SaveRGBA8 flips a copy of an RGBA buffer vertically and writes it as a PNG.
	// A failed write is logged and still reported as success.
	//
	// Parameters:
	//   - path: the destination file
	//   - pix: the RGBA pixels, 4 bytes per pixel
	//   - width, height: the image dimensions
	//
	// Returns:
	//   - bool: false only when the buffer does not match the dimensions
	SaveRGBA8(path string, pix []byte, width, height int) bool
}

var _ Codec = &codec{}

// NewCodec creates a new Codec with the provided options applied.
//
// Parameters:
//   - options: variadic list of CodecBuilderOption functions
//
// Returns:
//   - Codec: the image codec
func NewCodec(options ...CodecBuilderOption) Codec {
	c := &codec{log: zap.NewNop()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *codec) Load8(path string, mode ChannelMode, flip bool) (*Image8, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := 3
	if mode == ChannelsRGBA {
		channels = 4
	}

	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := &Image8{Width: w, Height: h, Channels: channels, Pix: make([]byte, w*h*channels)}
	for y := 0; y < h; y++ {
		dstRow := y
		if flip {
			dstRow = h - 1 - y
		}
		srcOff := y * src.Stride
		dstOff := dstRow * w * channels
		for x := 0; x < w; x++ {
			copy(out.Pix[dstOff+x*channels:dstOff+(x+1)*channels], src.Pix[srcOff+x*4:srcOff+x*4+channels])
		}
	}
	return out, nil
}

func (c *codec) Load16(path string, mode ChannelMode, flip bool) (*Image16, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := int(mode)
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("unsupported channel mode %d", mode)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Image16{Width: w, Height: h, Channels: channels, Pix: make([]uint16, w*h*channels)}
	for y := 0; y < h; y++ {
		dstRow := y
		if flip {
			dstRow = h - 1 - y
		}
		for x := 0; x < w; x++ {
			px := pixel16(img.At(b.Min.X+x, b.Min.Y+y), channels)
			off := (dstRow*w + x) * channels
			copy(out.Pix[off:off+channels], px[:channels])
		}
	}
	return out, nil
}

func (c *codec) Decode(data []byte) (*Pixels, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := &Pixels{Width: w, Height: h, Channels: 1, BitDepth: 8, Data: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			copy(out.Data[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
		return out, nil
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		channels := 4
		if _, ok := src.(*image.Gray16); ok {
			channels = 1
		}
		out := &Pixels{Width: w, Height: h, Channels: channels, BitDepth: 16, Data: make([]byte, w*h*channels*2)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				px := pixel16(img.At(b.Min.X+x, b.Min.Y+y), channels)
				off := ((y*w + x) * channels) * 2
				for ch := 0; ch < channels; ch++ {
					binary.LittleEndian.PutUint16(out.Data[off+ch*2:], px[ch])
				}
			}
		}
		return out, nil
	default:
		nrgba := toNRGBA(img)
		out := &Pixels{Width: w, Height: h, Channels: 4, BitDepth: 8, Data: make([]byte, w*h*4)}
		for y := 0; y < h; y++ {
			copy(out.Data[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4])
		}
		return out, nil
	}
}

func (c *codec) SaveRGBA8(path string, pix []byte, width, height int) bool {
	if width <= 0 || height <= 0 || len(pix) < width*height*4 {
		c.log.Error("refusing to save image",
			zap.String("path", path),
			zap.Int("width", width),
			zap.Int("height", height),
			zap.Error(ErrInvalidBuffer))
		return false
	}

	flipped := make([]byte, width*height*4)
	copy(flipped, pix)
	FlipVertical(flipped, width, height, 4)

	img := &image.NRGBA{
		Pix:    flipped,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		c.log.Error("failed to write image", zap.String("path", path), zap.Error(err))
	}
	return true
}

// toNRGBA converts any image to a non-premultiplied RGBA image anchored at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// pixel16 converts a color to up to four 16-bit straight-alpha components.
// One and two channel layouts carry luminance (and alpha).
func pixel16(c color.Color, channels int) [4]uint16 {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	switch channels {
	case 1, 2:
		g := color.Gray16Model.Convert(color.NRGBA64{R: n.R, G: n.G, B: n.B, A: 0xffff}).(color.Gray16)
		return [4]uint16{g.Y, n.A, 0, 0}
	default:
		return [4]uint16{n.R, n.G, n.B, n.A}
	}
}
