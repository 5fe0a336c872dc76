package manifest

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadProgram reads program source. UTF-8 is assumed; a UTF-16 byte order
// mark switches the decoding and a UTF-8 mark is dropped.
func ReadProgram(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot read program: %w", err)
	}
	defer f.Close()

	src, err := DecodeProgram(f)
	if err != nil {
		return "", fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return src, nil
}

// DecodeProgram is ReadProgram for an open reader.
func DecodeProgram(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadProgram reads the manifest's program file.
func (m *Manifest) ReadProgram() (string, error) {
	return ReadProgram(m.ProgramPath())
}
