package raster

import (
	"slices"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Format
	}{
		{"", JPEG},
		{"jpg", JPEG},
		{"JPEG", JPEG},
		{".png", PNG},
		{"gif", GIF},
	} {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
		} else if got != tc.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}

	if _, err := ParseFormat("tiff"); err == nil {
		t.Error("expected error for tiff")
	}
}

func TestFormatSet(t *testing.T) {
	s := AllFormats
	if !s.Has(JPEG) || !s.Has(PNG) || !s.Has(GIF) {
		t.Fatalf("AllFormats is missing members: %s", s)
	}

	s = s.Intersect(NewFormatSet(PNG, GIF)).Intersect(NewFormatSet(PNG))
	if !slices.Equal(s.Slice(), []Format{PNG}) {
		t.Errorf("expected {png}, got %s", s)
	}
	if s.String() != "{png}" {
		t.Errorf("unexpected String(): %s", s)
	}
	if FormatSet(0).Intersect(AllFormats) != 0 {
		t.Error("empty set must stay empty")
	}
}

func TestFormatExt(t *testing.T) {
	if PNG.Ext() != ".png" || JPEG.Ext() != ".jpeg" || GIF.Ext() != ".gif" {
		t.Error("unexpected extensions")
	}
	if !PNG.HasAlpha() || JPEG.HasAlpha() {
		t.Error("only PNG keeps alpha")
	}
}

func TestFormatSetFilter(t *testing.T) {
	if got := AllFormats.Filter(Format.HasAlpha); got != NewFormatSet(PNG) {
		t.Errorf("expected {png}, got %s", got)
	}
	if got := NewFormatSet(JPEG, GIF).Filter(Format.HasAlpha); got != 0 {
		t.Errorf("expected empty set, got %s", got)
	}
}
