// Package docx reads exam documents from their OOXML container: named parts,
// embedded media, and the ordered paragraph stream the parser consumes.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

var (
	// ErrInvalidArchive means the container itself could not be opened.
	ErrInvalidArchive = errors.New("docx: invalid archive")
	// ErrMissingPart means a required part is absent from the container.
	ErrMissingPart = errors.New("docx: missing part")
)

// Archive is an opened document container.
type Archive struct {
	files map[string]*zip.File
	order []*zip.File
}

// OpenArchive opens a document container from its raw bytes.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	a := &Archive{files: make(map[string]*zip.File, len(zr.File)), order: zr.File}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a, nil
}

// ReadPart returns the contents of a named part.
func (a *Archive) ReadPart(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	return data, nil
}

// HasPart reports whether the container holds a part with the given name.
func (a *Archive) HasPart(name string) bool {
	_, ok := a.files[name]
	return ok
}

type corePropsXML struct {
	Title string `xml:"title"`
}

// Title returns the document title from docProps/core.xml, or "" when the
// part is absent or carries no title.
func (a *Archive) Title() string {
	data, err := a.ReadPart("docProps/core.xml")
	if err != nil {
		return ""
	}
	var core corePropsXML
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
