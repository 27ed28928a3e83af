package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/BourgeoisBear/rasterm"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-sixel"
)

// Output protocols.
const (
	ProtocolAuto  = "auto"
	ProtocolPNG   = "png"
	ProtocolSixel = "sixel"
	ProtocolKitty = "kitty"
	ProtocolITerm = "iterm"
)

// Protocols lists the accepted protocol names.
func Protocols() []string {
	return []string{ProtocolAuto, ProtocolPNG, ProtocolSixel, ProtocolKitty, ProtocolITerm}
}

// Detect picks an inline image protocol for f, or PNG when f is not a
// terminal.
func Detect(f *os.File) string {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return ProtocolPNG
	}
	switch {
	case rasterm.IsKittyCapable():
		return ProtocolKitty
	case rasterm.IsItermCapable():
		return ProtocolITerm
	default:
		return ProtocolSixel
	}
}

// Encode writes img to w using protocol. ProtocolAuto must be resolved by
// the caller with Detect.
func Encode(w io.Writer, img image.Image, protocol string) error {
	var err error
	switch protocol {
	case ProtocolPNG:
		err = png.Encode(w, img)
	case ProtocolSixel:
		enc := sixel.NewEncoder(w)
		enc.Dither = true
		err = enc.Encode(img)
	case ProtocolKitty:
		err = rasterm.KittyWriteImage(w, img, rasterm.KittyImgOpts{})
	case ProtocolITerm:
		err = rasterm.ItermWriteImage(w, img)
	default:
		return fmt.Errorf("unknown image protocol %q", protocol)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s image: %w", protocol, err)
	}
	if protocol != ProtocolPNG {
		_, err = fmt.Fprintln(w)
	}
	return err
}
