package palette

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestRIFFRoundTrip(t *testing.T) {
	pals := []color.Palette{
		{color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 0, 255}},
		{color.RGBA{1, 2, 3, 255}},
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, pals)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	got, err := ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Fatalf("unexpected palettes: %v", got)
	}
	if got[1][0] != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("unexpected color: %v", got[1][0])
	}
}

func TestReadFromRejectsOtherForms(t *testing.T) {
	data := []byte("RIFF\x04\x00\x00\x00WAVE")
	if _, err := ReadFrom(bytes.NewReader(data)); err == nil {
		t.Error("expected error for non-PAL form")
	}
}

func TestLoadPaletteNamed(t *testing.T) {
	for _, name := range Names() {
		pal, err := LoadPalette(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(pal) < 2 {
			t.Errorf("%s: too few colors", name)
		}
	}

	gray, _ := LoadPalette("GRAY16")
	if gray[15] != (color.Gray{Y: 255}) {
		t.Errorf("expected white at the end of gray16, got %v", gray[15])
	}
}

func TestLoadPaletteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.pal")
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, []color.Palette{{color.Black}, {color.White}}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	pal, err := LoadPalette(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(pal) != 2 {
		t.Errorf("expected 2 colors, got %d", len(pal))
	}

	if _, err := LoadPalette(filepath.Join(t.TempDir(), "missing.pal")); err == nil {
		t.Error("expected error for missing file")
	}
}
