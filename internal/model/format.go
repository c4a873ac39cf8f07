package model

import (
	"fmt"
	"strings"
)

// Format is one of the compared 3D asset encodings.
type Format int

const (
	FormatUnknown Format = iota
	FBX
	OBJ
	GLTF
	GLB
)

// Formats lists the supported formats in declared order. Every iteration over
// formats uses this order so output is reproducible.
var Formats = []Format{FBX, OBJ, GLTF, GLB}

var formatNames = map[Format]string{
	FBX:  "FBX",
	OBJ:  "OBJ",
	GLTF: "GLTF",
	GLB:  "GLB",
}

var displayNames = map[Format]string{
	FBX:  "FBX",
	OBJ:  "OBJ",
	GLTF: "glTF",
	GLB:  "GLB",
}

var formatAliases = map[string]Format{
	"fbx":      FBX,
	"obj":      OBJ,
	"gltf":     GLTF,
	"gltf2":    GLTF,
	"gltf 2.0": GLTF,
	"gltf2.0":  GLTF,
	"glb":      GLB,
}

// ParseFormat parses a format name case-insensitively. A leading dot
// (".glb") is accepted.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, ".")
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("unrecognized format %q", s)
}

// String returns the canonical upper-case token.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// DisplayName returns the name used in human-readable reports.
func (f Format) DisplayName() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return "unknown"
}

// Index returns the position of f in Formats, or -1.
func (f Format) Index() int {
	for i, v := range Formats {
		if v == f {
			return i
		}
	}
	return -1
}

func (f Format) MarshalText() ([]byte, error) {
	if f == FormatUnknown {
		return nil, fmt.Errorf("cannot marshal unknown format")
	}
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// FormatNames returns the canonical names of all formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.String()
	}
	return names
}
