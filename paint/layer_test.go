package paint

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"picstack/raster"
)

func indices(p *Painter) []int {
	var res []int
	for _, l := range p.Layers() {
		res = append(res, l.Index())
	}
	return res
}

func TestCreateLayerDefaults(t *testing.T) {
	root := solid(t, 10, 10, white)
	l0, err := root.CreateLayer(solid(t, 1, 1, red))
	if err != nil {
		t.Fatal(err)
	}
	l1, err := root.CreateLayer(solid(t, 1, 1, red), WithOffset(2, 3))
	if err != nil {
		t.Fatal(err)
	}

	if l0.Index() != 0 || l0.Alias() != "layer-0" {
		t.Errorf("unexpected first layer: %d %q", l0.Index(), l0.Alias())
	}
	if l1.Index() != 1 || l1.Offset().X != 2 || l1.Offset().Y != 3 {
		t.Errorf("unexpected second layer: %d %v", l1.Index(), l1.Offset())
	}
	if root.Kind() != Composite {
		t.Errorf("expected composite, got %s", root.Kind())
	}
	if l1.Painter().IsRoot() {
		t.Error("attached painter must not be a root")
	}
	if l, ok := root.Layer("layer-1"); !ok || l != l1 {
		t.Error("lookup by alias failed")
	}
}

func TestDuplicateIndex(t *testing.T) {
	root := solid(t, 10, 10, white)
	if _, err := root.CreateLayer(solid(t, 1, 1, red), WithIndex(3)); err != nil {
		t.Fatal(err)
	}
	child := solid(t, 1, 1, blue)

	_, err := root.CreateLayer(child, WithIndex(3))
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !slices.Equal(indices(root), []int{3}) {
		t.Errorf("layers changed after failed insert: %v", indices(root))
	}
	if !child.IsRoot() {
		t.Error("rejected painter must stay a root")
	}
}

func TestDefaultIndexSkipsTaken(t *testing.T) {
	root := solid(t, 10, 10, white)
	for _, opts := range [][]LayerOption{
		{WithIndex(1)},
		nil,
		{WithIndex(0)},
		nil,
	} {
		if _, err := root.CreateLayer(solid(t, 1, 1, red), opts...); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(indices(root), []int{0, 1, 2, 3}) {
		t.Errorf("unexpected indices: %v", indices(root))
	}
}

func TestCreateLayerOwnership(t *testing.T) {
	a := solid(t, 4, 4, white)
	b := solid(t, 4, 4, white)
	child := solid(t, 1, 1, red)

	if _, err := a.CreateLayer(child); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CreateLayer(child); !errors.Is(err, ErrPrecondition) {
		t.Errorf("second owner: expected ErrPrecondition, got %v", err)
	}
	if _, err := a.CreateLayer(a); !errors.Is(err, ErrPrecondition) {
		t.Errorf("self: expected ErrPrecondition, got %v", err)
	}
	if _, err := b.CreateLayer(a); err != nil {
		t.Fatal(err)
	}
	// a is now below b, so b may not go below a's child
	if _, err := child.CreateLayer(b); !errors.Is(err, ErrPrecondition) {
		t.Errorf("ancestor: expected ErrPrecondition, got %v", err)
	}
	if _, err := a.CreateLayer(nil); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("nil: expected ErrIllegalArgument, got %v", err)
	}
}

func TestLayerOrder(t *testing.T) {
	root := solid(t, 2, 2, white)
	// created top first; the index decides the order
	if _, err := root.CreateLayer(solid(t, 2, 2, blue), WithIndex(5)); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateLayer(solid(t, 2, 2, red), WithIndex(2)); err != nil {
		t.Fatal(err)
	}

	if err := root.Extrude(); err != nil {
		t.Fatal(err)
	}
	if got := root.Image().NRGBAAt(1, 1); got != blue {
		t.Errorf("expected the higher index on top, got %v", got)
	}
}

func TestExtrudeOffsets(t *testing.T) {
	root := solid(t, 6, 6, white)
	if _, err := root.CreateLayer(solid(t, 2, 2, red), WithOffset(3, 1)); err != nil {
		t.Fatal(err)
	}
	// partly outside the canvas
	if _, err := root.CreateLayer(solid(t, 3, 3, blue), WithOffset(-1, 4)); err != nil {
		t.Fatal(err)
	}

	if err := root.Extrude(); err != nil {
		t.Fatal(err)
	}
	img := root.Image()
	for _, tc := range []struct {
		x, y int
		want color.NRGBA
	}{
		{3, 1, red},
		{4, 2, red},
		{5, 2, white},
		{2, 1, white},
		{0, 4, blue},
		{1, 5, blue},
		{2, 5, white},
	} {
		if got := img.NRGBAAt(tc.x, tc.y); got != tc.want {
			t.Errorf("(%d,%d): expected %v, got %v", tc.x, tc.y, tc.want, got)
		}
	}
	if root.Width() != 6 || root.Height() != 6 {
		t.Error("composition must not resize the parent")
	}
}

func buildTree(t *testing.T) *Painter {
	t.Helper()
	root := solid(t, 20, 20, white)
	mid := solid(t, 10, 10, blue)
	if _, err := mid.CreateLayer(solid(t, 3, 3, red), WithOffset(4, 4)); err != nil {
		t.Fatal(err)
	}
	half := solid(t, 5, 5, black)
	if err := half.Opacity(0.5); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateLayer(mid, WithOffset(2, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateLayer(half, WithOffset(8, 8)); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestExtrudeDeterministic(t *testing.T) {
	a, b := buildTree(t), buildTree(t)
	if err := a.Extrude(); err != nil {
		t.Fatal(err)
	}
	if err := b.Extrude(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("identical trees flattened differently")
	}

	// nested content reaches the root
	if got := a.Image().NRGBAAt(7, 7); got != red {
		t.Errorf("expected red from the grandchild, got %v", got)
	}
}

func TestCompositeChildStaysNotFlattened(t *testing.T) {
	root := solid(t, 10, 10, white)
	mid := solid(t, 5, 5, blue)
	leaf := solid(t, 2, 2, red)
	if _, err := mid.CreateLayer(leaf); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateLayer(mid); err != nil {
		t.Fatal(err)
	}

	if err := root.Extrude(); err != nil {
		t.Fatal(err)
	}
	if leaf.State() != Flattened {
		t.Error("expected leaf to be flattened")
	}
	if mid.State() != NotFlattened || root.State() != NotFlattened {
		t.Error("composites must not mark themselves flattened")
	}
	if err := mid.Crop(2, 2, 0, 0, 0); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
}

func TestFormatNarrowing(t *testing.T) {
	root := solid(t, 8, 8, white)
	if _, err := root.CreateLayer(solid(t, 2, 2, red)); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateLayer(solid(t, 2, 2, blue)); err != nil {
		t.Fatal(err)
	}
	if err := root.Opacity(0.5); err != nil {
		t.Fatal(err)
	}
	if root.AllowedFormats() != raster.AllFormats {
		t.Errorf("narrowing happens on flatten, got %s", root.AllowedFormats())
	}

	if err := root.Extrude(); err != nil {
		t.Fatal(err)
	}
	if got := root.AllowedFormats(); got != raster.NewFormatSet(raster.PNG) {
		t.Errorf("expected {png}, got %s", got)
	}

	dir := t.TempDir()
	_, err := root.Output(filepath.Join(dir, "out.jpg"), raster.JPEG, nil)
	if !errors.Is(err, ErrIllegalArgument) || !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrIllegalArgument, got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("nothing must be written, found %v", entries)
	}
}

func TestOutputRewritesExtension(t *testing.T) {
	root := solid(t, 4, 4, red)
	if _, err := root.CreateLayer(solid(t, 2, 2, blue), WithOffset(1, 1)); err != nil {
		t.Fatal(err)
	}

	path, err := root.Output(filepath.Join(t.TempDir(), "picture.jpg"), raster.GIF, nil)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "picture.gif" {
		t.Errorf("expected picture.gif, got %s", path)
	}

	out, err := FromImage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if got := out.Image().NRGBAAt(2, 2); got.B < 0xf0 || got.R > 0x10 {
		t.Errorf("expected blue in the output, got %v", got)
	}
}

func TestCreateLayerFromImage(t *testing.T) {
	src := solid(t, 3, 2, red)
	var buf bytes.Buffer
	if err := src.canvas.buf.Encode(&buf, raster.PNG, nil); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "red.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	root := solid(t, 5, 5, white)
	l, err := root.CreateLayerFromImage(path, WithOffset(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	sum := sha1.Sum(buf.Bytes())
	if l.Alias() != hex.EncodeToString(sum[:]) {
		t.Errorf("expected content hash alias, got %q", l.Alias())
	}
	if l.Painter().Width() != 3 || l.Painter().Height() != 2 {
		t.Errorf("unexpected layer size %dx%d", l.Painter().Width(), l.Painter().Height())
	}

	named, err := root.CreateLayerFromImage(path, WithAlias("logo"))
	if err != nil {
		t.Fatal(err)
	}
	if named.Alias() != "logo" {
		t.Errorf("explicit alias ignored: %q", named.Alias())
	}

	if _, err := root.CreateLayerFromImage(path, WithIndex(0)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
	if _, err := root.CreateLayerFromImage(filepath.Join(t.TempDir(), "none.png")); !errors.Is(err, raster.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}
