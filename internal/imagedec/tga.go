package imagedec

import (
	"fmt"
	"image"
)

const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

// decodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images with 24 or 32 bits per pixel.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header too short")
	}
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images: %w", ErrUnsupportedFormat)
	}
	if imageType != tgaUncompressed && imageType != tgaRLE {
		return nil, fmt.Errorf("tga: image type %d: %w", imageType, ErrUnsupportedFormat)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: %d bits per pixel: %w", bpp, ErrUnsupportedFormat)
	}
	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: truncated id field")
	}

	p := tgaPixels{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		stride:      bpp / 8,
		topToBottom: topToBottom,
	}
	src := data[offset:]
	if imageType == tgaUncompressed {
		if len(src) < width*height*p.stride {
			return nil, fmt.Errorf("tga: truncated pixel data")
		}
		for i := 0; i < width*height; i++ {
			p.set(i, src[i*p.stride:])
		}
		return p.img, nil
	}
	if err := p.decodeRLE(src); err != nil {
		return nil, err
	}
	return p.img, nil
}

type tgaPixels struct {
	img           *image.RGBA
	width, height int
	stride        int
	topToBottom   bool
}

// set stores the BGR(A) pixel at the start of px as pixel number i in file
// order.
func (p *tgaPixels) set(i int, px []byte) {
	x, y := i%p.width, i/p.width
	if !p.topToBottom {
		y = p.height - 1 - y
	}
	o := p.img.PixOffset(x, y)
	p.img.Pix[o+0] = px[2]
	p.img.Pix[o+1] = px[1]
	p.img.Pix[o+2] = px[0]
	p.img.Pix[o+3] = 255
	if p.stride == 4 {
		p.img.Pix[o+3] = px[3]
	}
}

func (p *tgaPixels) decodeRLE(src []byte) error {
	total := p.width * p.height
	n, i := 0, 0
	for n < total {
		if i >= len(src) {
			return fmt.Errorf("tga: truncated rle data at pixel %d", n)
		}
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if i+p.stride > len(src) {
				return fmt.Errorf("tga: truncated rle packet")
			}
			for k := 0; k < count && n < total; k++ {
				p.set(n, src[i:])
				n++
			}
			i += p.stride
			continue
		}
		for k := 0; k < count && n < total; k++ {
			if i+p.stride > len(src) {
				return fmt.Errorf("tga: truncated raw packet")
			}
			p.set(n, src[i:])
			i += p.stride
			n++
		}
	}
	return nil
}
