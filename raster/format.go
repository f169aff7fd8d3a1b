package raster

import (
	"fmt"
	"strings"
)

// Format is an output encoding supported by the backend.
type Format uint8

const (
	JPEG Format = iota
	PNG
	GIF
)

var formatNames = [...]string{
	JPEG: "jpeg",
	PNG:  "png",
	GIF:  "gif",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Ext returns the file extension used for f, including the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// HasAlpha reports whether the encoding keeps a full alpha channel.
func (f Format) HasAlpha() bool {
	return f == PNG
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	}
	return JPEG, fmt.Errorf("unsupported format: %q", s)
}

// FormatSet is a set of formats. The zero value is empty.
type FormatSet uint8

// AllFormats holds every format the backend can encode.
const AllFormats = FormatSet(1<<JPEG | 1<<PNG | 1<<GIF)

func NewFormatSet(formats ...Format) FormatSet {
	var s FormatSet
	for _, f := range formats {
		s |= 1 << f
	}
	return s
}

func (s FormatSet) Has(f Format) bool {
	return s&(1<<f) != 0
}

func (s FormatSet) Intersect(o FormatSet) FormatSet {
	return s & o
}

// Filter returns the members of s for which keep reports true.
func (s FormatSet) Filter(keep func(Format) bool) FormatSet {
	var res FormatSet
	for _, f := range s.Slice() {
		if keep(f) {
			res |= 1 << f
		}
	}
	return res
}

// Slice returns the members of s in enumeration order.
func (s FormatSet) Slice() []Format {
	var res []Format
	for f := range Format(len(formatNames)) {
		if s.Has(f) {
			res = append(res, f)
		}
	}
	return res
}

func (s FormatSet) String() string {
	formats := s.Slice()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
