package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArchive creates a minimal document container in memory.
func buildArchive(t *testing.T, parts map[string][]byte) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, data := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func wrapDocument(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
 xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:v="urn:schemas-microsoft-com:vml"
 xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>` + body + `</w:body>
</w:document>`)
}

func TestOpenArchive_Invalid(t *testing.T) {
	_, err := OpenArchive([]byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArchive)
}

func TestParagraphs_MissingDocumentPart(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"word/other.xml": []byte("<x/>"),
	})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	_, err = a.Paragraphs()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestParagraphs_RunsBreaksAndEquations(t *testing.T) {
	doc := wrapDocument(`
<w:p><w:r><w:t>first </w:t></w:r><w:r><w:t>second</w:t></w:r></w:p>
<w:p><w:r><w:t>before</w:t><w:br/><w:t>after</w:t></w:r></w:p>
<w:p><w:r><w:t>area </w:t></w:r><m:oMath><m:r><m:t>x^2</m:t></m:r></m:oMath></w:p>
<w:p><w:r><w:t>   </w:t></w:r></w:p>`)
	data := buildArchive(t, map[string][]byte{"word/document.xml": doc})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	paras, err := a.Paragraphs()
	require.NoError(t, err)
	require.Len(t, paras, 3, "whitespace-only paragraph must be dropped")

	assert.Equal(t, "first second", paras[0].Text)
	assert.Equal(t, "before\nafter", paras[1].Text)
	assert.Equal(t, "area x^2", paras[2].Text, "equation text is flattened into the run stream")
}

func TestParagraphs_UnderlineRuns(t *testing.T) {
	doc := wrapDocument(`
<w:p>
 <w:r><w:t>Pick one: </w:t></w:r>
 <w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>B</w:t></w:r>
</w:p>
<w:p><w:r><w:rPr><w:u w:val="none"/></w:rPr><w:t>not underlined</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>  </w:t></w:r><w:r><w:t>x</w:t></w:r></w:p>`)
	data := buildArchive(t, map[string][]byte{"word/document.xml": doc})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	paras, err := a.Paragraphs()
	require.NoError(t, err)
	require.Len(t, paras, 3)

	assert.True(t, paras[0].HasUnderline)
	assert.Equal(t, []string{"B"}, paras[0].Underlined)

	assert.False(t, paras[1].HasUnderline, `u val="none" is not an underline`)
	assert.False(t, paras[2].HasUnderline, "blank underlined run does not flag the paragraph")
}

func TestParagraphs_UnderlineMarker(t *testing.T) {
	doc := wrapDocument(`<w:p><w:r><w:t>A. first [B]{.underline} rest</w:t></w:r></w:p>`)
	data := buildArchive(t, map[string][]byte{"word/document.xml": doc})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	paras, err := a.Paragraphs()
	require.NoError(t, err)
	require.Len(t, paras, 1)

	assert.Equal(t, "A. first rest", paras[0].Text, "marker is stripped from visible text")
	assert.True(t, paras[0].HasUnderline)
	assert.Equal(t, []string{"B"}, paras[0].Underlined)
}

func TestParagraphs_ImageReferences(t *testing.T) {
	doc := wrapDocument(`
<w:p>
 <w:r><w:drawing><a:blip r:embed="rId7"/></w:drawing></w:r>
 <w:r><a:blip r:embed="rId7"/></w:r>
 <w:r><w:pict><v:imagedata r:id="rId9"/></w:pict></w:r>
</w:p>`)
	data := buildArchive(t, map[string][]byte{"word/document.xml": doc})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	paras, err := a.Paragraphs()
	require.NoError(t, err)
	require.Len(t, paras, 1, "image-only paragraph is kept")
	assert.Equal(t, []string{"rId7", "rId9"}, paras[0].ImageIDs, "ids are de-duplicated within a paragraph")
	assert.Empty(t, paras[0].Text)
}

const relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
 <Relationship Id="rId8" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

func TestMediaAssets(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"word/document.xml":            wrapDocument(``),
		"word/_rels/document.xml.rels": []byte(relsXML),
		"word/media/image1.png":        {0x89, 0x50, 0x4e, 0x47},
		"word/media/figure2.jpeg":      {0xff, 0xd8},
		"word/media/diagram.xyz":       {0x00},
	})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	assets := a.MediaAssets()
	require.Len(t, assets, 3)

	byName := make(map[string]int)
	for i, asset := range assets {
		byName[asset.Filename] = i
		assert.NotEmpty(t, asset.ID)
		assert.NotEmpty(t, asset.Payload)
	}

	img1 := assets[byName["image1.png"]]
	assert.Equal(t, "image/png", img1.ContentType)
	assert.Equal(t, "rId7", img1.RelID)

	fig2 := assets[byName["figure2.jpeg"]]
	assert.Equal(t, "image/jpeg", fig2.ContentType)
	assert.Empty(t, fig2.RelID, "no relationship points at this file")

	unknown := assets[byName["diagram.xyz"]]
	assert.Equal(t, "image/png", unknown.ContentType, "unknown extensions default to png")
}

func TestMediaAssets_MissingManifest(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"word/document.xml":     wrapDocument(``),
		"word/media/image1.png": {0x89},
	})
	a, err := OpenArchive(data)
	require.NoError(t, err)

	assets := a.MediaAssets()
	require.Len(t, assets, 1, "extraction continues without a manifest")
	assert.Empty(t, assets[0].RelID)
}

func TestTitle(t *testing.T) {
	core := []byte(`<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
 xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Đề thi thử</dc:title>
</cp:coreProperties>`)
	data := buildArchive(t, map[string][]byte{
		"word/document.xml": wrapDocument(``),
		"docProps/core.xml": core,
	})
	a, err := OpenArchive(data)
	require.NoError(t, err)
	assert.Equal(t, "Đề thi thử", a.Title())

	noCore := buildArchive(t, map[string][]byte{"word/document.xml": wrapDocument(``)})
	a2, err := OpenArchive(noCore)
	require.NoError(t, err)
	assert.Empty(t, a2.Title())
}
