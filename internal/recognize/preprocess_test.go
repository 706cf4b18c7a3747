package recognize

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	// dark "ink" block on light paper
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := uint8(220)
			if x > w/4 && x < w/2 && y > h/4 && y < h/2 {
				c = 30
			}
			img.SetGray(x, y, color.Gray{Y: c})
		}
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipelineProducesBinarizedPNG(t *testing.T) {
	path := writeTestPNG(t, 60, 40)

	out, cleanup, warns := Pipeline{}.Process(path)
	if cleanup != nil {
		defer cleanup()
	}
	if len(warns) != 0 {
		t.Fatalf("warnings: %v", warns)
	}
	if out == path {
		t.Fatal("expected a new processed file")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("processed output is not a PNG: %v", err)
	}

	// the small source must have been upscaled 2x
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Errorf("bounds = %v, want 120x80", img.Bounds())
	}

	// binarized: only pure black and pure white remain
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected grayscale output, got %T", img)
	}
	for _, p := range gray.Pix {
		if p != 0 && p != 255 {
			t.Fatalf("pixel value %d is neither black nor white", p)
		}
	}
}

func TestPipelineDegradesOnUndecodableInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, cleanup, warns := Pipeline{}.Process(path)
	if cleanup != nil {
		defer cleanup()
	}
	if out != path {
		t.Errorf("broken input must pass through unchanged, got %q", out)
	}
	if len(warns) == 0 || !strings.Contains(warns[0], "decode") {
		t.Errorf("expected a decode warning, got %v", warns)
	}
}

func TestIdentityPassesThrough(t *testing.T) {
	out, cleanup, warns := Identity{}.Process("/some/file.jpg")
	if out != "/some/file.jpg" || cleanup != nil || warns != nil {
		t.Error("identity preprocessor must not touch anything")
	}
}
