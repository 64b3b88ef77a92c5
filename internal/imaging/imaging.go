// Package imaging converts arbitrary images to the native byte format of a
// panel: scaled to the key or touch screen resolution, rotated and mirrored
// the way the hardware mounts its displays, then encoded as BMP or JPEG.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"

	"github.com/seagrayinc/streamdeck/internal/model"
)

// ErrNoDisplay reports an encode attempt for a panel without a display.
var ErrNoDisplay = errors.New("imaging: device has no display")

// jpegQuality matches what the panels were calibrated against; lower
// settings show visible blocking on the small key displays.
const jpegQuality = 95

// ForKey encodes img to the native key image format of the panel. A nil img
// yields a solid black key.
func ForKey(d *model.Descriptor, img image.Image) ([]byte, error) {
	if !d.Visual() {
		return nil, ErrNoDisplay
	}
	if img == nil {
		img = solid(d.ImageWidth, d.ImageHeight)
	}
	return encode(d.Format, transform(img, d.ImageWidth, d.ImageHeight, d.Rotation, d.FlipX, d.FlipY))
}

// ForTouchScreen encodes img for the panel's touch strip display, scaled to
// (w, h). A nil img yields a black area.
func ForTouchScreen(d *model.Descriptor, img image.Image, w, h int) ([]byte, error) {
	if !d.HasTouchScreen() {
		return nil, ErrNoDisplay
	}
	if img == nil {
		img = solid(w, h)
	}
	return encode(model.FormatJPEG, transform(img, w, h, 0, false, false))
}

// transform applies the descriptor's rotation, mirroring and scaling. Order
// matters and follows the hardware: rotate first, then mirror, then scale.
func transform(img image.Image, w, h, rotation int, flipX, flipY bool) image.Image {
	g := gift.New()
	switch rotation {
	case 90:
		g.Add(gift.Rotate90())
	case 180:
		g.Add(gift.Rotate180())
	case 270:
		g.Add(gift.Rotate270())
	}
	if flipX {
		g.Add(gift.FlipHorizontal())
	}
	if flipY {
		g.Add(gift.FlipVertical())
	}
	g.Add(gift.ResizeToFill(w, h, gift.LanczosResampling, gift.CenterAnchor))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	g.Draw(dst, img)
	return dst
}

// solid returns an opaque black image. Keys are cleared by writing one of
// these rather than by a dedicated command; the devices have none.
func solid(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return dst
}

func encode(format model.ImageFormat, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case model.FormatBMP:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, err
		}
	case model.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoDisplay
	}
	return buf.Bytes(), nil
}
