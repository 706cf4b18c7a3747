package recognize

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Preprocessor prepares a scanned image for OCR. Implementations return the
// path tesseract should read, a cleanup func for any temp artifact (may be
// nil), and warnings for steps that were skipped. A Preprocessor must not
// fail outright: when the image cannot be improved, it returns the input
// path unchanged.
type Preprocessor interface {
	Process(path string) (outPath string, cleanup func(), warnings []string)
}

// Identity performs no preprocessing; OCR reads the original upload.
type Identity struct{}

func (Identity) Process(path string) (string, func(), []string) {
	return path, nil, nil
}

// Pipeline is the full cleanup chain for letterhead scans: grayscale,
// 2x upscale for small scans, median denoise, then adaptive local
// thresholding. Letterhead scans tend to have uneven lighting, which rules
// out a single global threshold.
type Pipeline struct {
	// UpscaleBelow is the shorter-dimension pixel count under which the
	// image is scaled 2x before OCR. Zero means the default of 1000.
	UpscaleBelow int
	// Window is the odd side length of the local thresholding neighborhood.
	// Zero means the default of 15.
	Window int
	// Bias is subtracted from the local mean before comparing; it keeps
	// faint paper texture from turning into speckle. Zero means 10.
	Bias int
}

func (p Pipeline) Process(path string) (string, func(), []string) {
	upscaleBelow := p.UpscaleBelow
	if upscaleBelow <= 0 {
		upscaleBelow = 1000
	}
	window := p.Window
	if window <= 0 {
		window = 15
	}
	if window%2 == 0 {
		window++
	}
	bias := p.Bias
	if bias <= 0 {
		bias = 10
	}

	f, err := os.Open(path)
	if err != nil {
		return path, nil, []string{fmt.Sprintf("preprocess: open: %v", err)}
	}
	src, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		// Undecodable upload: let tesseract try the raw file.
		return path, nil, []string{fmt.Sprintf("preprocess: decode: %v", err)}
	}

	gray := toGray(src)
	if min(gray.Bounds().Dx(), gray.Bounds().Dy()) < upscaleBelow {
		gray = upscale2x(gray)
	}
	gray = medianDenoise(gray)
	gray = adaptiveThreshold(gray, window, bias)

	out, cleanup, err := writeTempPNG(gray)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return path, nil, []string{fmt.Sprintf("preprocess: write: %v", err)}
	}
	return out, cleanup, nil
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, src, b.Min, draw.Src)
	return g
}

func upscale2x(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// medianDenoise applies a 3x3 median filter, the classic salt-and-pepper
// remover for binarized scans.
func medianDenoise(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	var neigh [9]uint8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					neigh[n] = src.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y
					n++
				}
			}
			dst.SetGray(x, y, color.Gray{Y: median(neigh[:n])})
		}
	}
	return dst
}

func median(vals []uint8) uint8 {
	// insertion sort; at most 9 elements
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j-1] > vals[j]; j-- {
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
	return vals[len(vals)/2]
}

// adaptiveThreshold binarizes against the mean of a local window rather
// than one global cutoff, using a summed-area table so the window size does
// not change the cost per pixel.
func adaptiveThreshold(src *image.Gray, window, bias int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	half := window / 2

	integral := make([]int64, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-half), max(0, y-half)
			x1, y1 := min(w-1, x+half), min(h-1, y+half)
			count := int64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*stride+x1+1] -
				integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] +
				integral[y0*stride+x0]
			mean := sum / count
			if int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) < mean-int64(bias) {
				dst.SetGray(x, y, color.Gray{Y: 0})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

func writeTempPNG(img image.Image) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "arsip-pp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(out)
	if err != nil {
		return "", cleanup, err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", cleanup, err
	}
	if err := f.Close(); err != nil {
		return "", cleanup, err
	}
	return out, cleanup, nil
}
