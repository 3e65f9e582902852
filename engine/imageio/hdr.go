package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrHDRFormat is returned when a Radiance file is malformed.
var ErrHDRFormat = errors.New("malformed radiance hdr")

func (c *codec) LoadHDR(path string, flip bool) (*ImageF32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := DecodeHDR(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if flip {
		FlipRows(img.Pix, img.Width, img.Height, 3)
	}
	return img, nil
}

// DecodeHDR decodes a Radiance RGBE stream into a top-down float RGB buffer.
// Flat, old run-length and new run-length scanlines are accepted.
//
// Parameters:
//   - r: the encoded stream
//
// Returns:
//   - *ImageF32: the decoded buffer
//   - error: ErrHDRFormat wrapped with the failing detail
func DecodeHDR(r *bufio.Reader) (*ImageF32, error) {
	width, height, bottomUp, err := readHDRHeader(r)
	if err != nil {
		return nil, err
	}

	img := &ImageF32{Width: width, Height: height, Pix: make([]float32, width*height*3)}
	scan := make([]byte, width*4)
	for y := 0; y < height; y++ {
		if err := readHDRScanline(r, scan, width); err != nil {
			return nil, fmt.Errorf("%w: scanline %d: %v", ErrHDRFormat, y, err)
		}
		row := y
		if bottomUp {
			row = height - 1 - y
		}
		out := img.Pix[row*width*3 : (row+1)*width*3]
		for x := 0; x < width; x++ {
			rgbeToFloat(out[x*3:x*3+3], scan[x*4:x*4+4])
		}
	}
	return img, nil
}

func readHDRHeader(r *bufio.Reader) (width, height int, bottomUp bool, err error) {
	magic, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrHDRFormat, err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return 0, 0, false, fmt.Errorf("%w: missing #? signature", ErrHDRFormat)
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: unterminated header: %v", ErrHDRFormat, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if format, ok := strings.CutPrefix(line, "FORMAT="); ok && format != "32-bit_rle_rgbe" {
			return 0, 0, false, fmt.Errorf("%w: unsupported format %q", ErrHDRFormat, format)
		}
	}

	res, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: missing resolution: %v", ErrHDRFormat, err)
	}
	fields := strings.Fields(res)
	if len(fields) != 4 || fields[2] != "+X" || (fields[0] != "-Y" && fields[0] != "+Y") {
		return 0, 0, false, fmt.Errorf("%w: unsupported resolution line %q", ErrHDRFormat, strings.TrimSpace(res))
	}
	height, err = strconv.Atoi(fields[1])
	if err != nil || height <= 0 {
		return 0, 0, false, fmt.Errorf("%w: bad height %q", ErrHDRFormat, fields[1])
	}
	width, err = strconv.Atoi(fields[3])
	if err != nil || width <= 0 {
		return 0, 0, false, fmt.Errorf("%w: bad width %q", ErrHDRFormat, fields[3])
	}
	return width, height, fields[0] == "+Y", nil
}

// readHDRScanline fills scan with width RGBE quadruples.
func readHDRScanline(r *bufio.Reader, scan []byte, width int) error {
	if width < 8 || width > 0x7fff {
		return readHDRFlat(r, scan, width, nil)
	}

	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		return readHDRFlat(r, scan, width, head[:])
	}
	if int(head[2])<<8|int(head[3]) != width {
		return fmt.Errorf("run-length width %d does not match %d", int(head[2])<<8|int(head[3]), width)
	}

	for ch := 0; ch < 4; ch++ {
		for x := 0; x < width; {
			count, err := r.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				if x+n > width {
					return errors.New("run overflows scanline")
				}
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				for i := 0; i < n; i++ {
					scan[(x+i)*4+ch] = v
				}
				x += n
				continue
			}
			n := int(count)
			if n == 0 || x+n > width {
				return errors.New("literal overflows scanline")
			}
			for i := 0; i < n; i++ {
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				scan[(x+i)*4+ch] = v
			}
			x += n
		}
	}
	return nil
}

// readHDRFlat reads uncompressed or old-style run-length pixels. first holds
// a pixel already consumed from r, if any.
func readHDRFlat(r *bufio.Reader, scan []byte, width int, first []byte) error {
	shift := 0
	var px [4]byte
	for x := 0; x < width; {
		if first != nil {
			copy(px[:], first)
			first = nil
		} else if _, err := io.ReadFull(r, px[:]); err != nil {
			return err
		}

		if px[0] == 1 && px[1] == 1 && px[2] == 1 {
			if x == 0 {
				return errors.New("repeat before first pixel")
			}
			n := int(px[3]) << shift
			if x+n > width {
				return errors.New("repeat overflows scanline")
			}
			prev := scan[(x-1)*4 : x*4]
			for i := 0; i < n; i++ {
				copy(scan[(x+i)*4:(x+i+1)*4], prev)
			}
			x += n
			shift += 8
			continue
		}
		copy(scan[x*4:(x+1)*4], px[:])
		x++
		shift = 0
	}
	return nil
}

func rgbeToFloat(dst []float32, rgbe []byte) {
	if rgbe[3] == 0 {
		dst[0], dst[1], dst[2] = 0, 0, 0
		return
	}
	f := float32(math.Ldexp(1, int(rgbe[3])-(128+8)))
	dst[0] = float32(rgbe[0]) * f
	dst[1] = float32(rgbe[1]) * f
	dst[2] = float32(rgbe[2]) * f
}
