package docx

import (
	"encoding/xml"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/examdoc/examdoc/internal/model"
)

const (
	mediaPrefix = "word/media/"
	relsPart    = "word/_rels/document.xml.rels"
)

// contentTypes maps media filename extensions to MIME types. Unknown
// extensions fall back to PNG, which every downstream consumer can display.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
}

func contentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return contentTypes[".png"]
}

type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// relIDsByFilename parses the relationship manifest and maps media filenames
// to their relationship ids. A missing or malformed manifest is non-fatal:
// media is still extracted, just without resolved ids.
func (a *Archive) relIDsByFilename() map[string]string {
	ids := make(map[string]string)
	data, err := a.ReadPart(relsPart)
	if err != nil {
		slog.Warn("relationship manifest unavailable", "part", relsPart, "error", err)
		return ids
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		slog.Warn("relationship manifest malformed", "part", relsPart, "error", err)
		return ids
	}
	for _, rel := range rels.Relationships {
		target := strings.TrimPrefix(rel.Target, "/word/")
		target = strings.TrimPrefix(target, "word/")
		if !strings.HasPrefix(target, "media/") {
			continue
		}
		ids[path.Base(target)] = rel.ID
	}
	return ids
}

// MediaAssets extracts every embedded image under the media path. Entries
// that cannot be read are skipped with a warning rather than failing the
// extraction.
func (a *Archive) MediaAssets() []*model.ImageAsset {
	relIDs := a.relIDsByFilename()

	var assets []*model.ImageAsset
	for _, f := range a.order {
		if !strings.HasPrefix(f.Name, mediaPrefix) || strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			slog.Warn("skipping unreadable media entry", "entry", f.Name, "error", err)
			continue
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			slog.Warn("skipping unreadable media entry", "entry", f.Name, "error", err)
			continue
		}
		filename := path.Base(f.Name)
		assets = append(assets, &model.ImageAsset{
			ID:          uuid.New().String(),
			Filename:    filename,
			ContentType: contentTypeFor(filename),
			RelID:       relIDs[filename],
			Payload:     payload,
		})
	}
	return assets
}
