package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Paragraph is one physical paragraph of the document after normalization.
// Paragraphs that contribute neither text nor images are never materialized.
type Paragraph struct {
	Text         string
	ImageIDs     []string
	HasUnderline bool
	Underlined   []string
}

// underlineMarkerRe matches the textual underline convention [X]{.underline}
// that some converters emit instead of run formatting.
var underlineMarkerRe = regexp.MustCompile(`\[([A-Za-z])\]\{\.underline\}`)

// newlineTrimRe trims horizontal whitespace around explicit line breaks.
var newlineTrimRe = regexp.MustCompile(` *\n *`)

// Paragraphs walks the main document part and yields its paragraphs in
// document order. A missing main part is fatal for the whole parse.
func (a *Archive) Paragraphs() ([]Paragraph, error) {
	data, err := a.ReadPart(documentPart)
	if err != nil {
		return nil, err
	}
	paras, err := extractParagraphs(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	return paras, nil
}

// extractParagraphs streams the markup, concatenating text runs (plain and
// equation text are treated identically), turning explicit breaks into
// newlines, collecting image relationship ids from the three embed encodings,
// and recording underlined run text.
func extractParagraphs(data []byte) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var out []Paragraph

	var (
		inPara       bool
		inRunProps   bool
		inText       bool
		paraText     strings.Builder
		runText      strings.Builder
		runUnderline bool
		underlined   []string
		imageIDs     []string
		imageSeen    map[string]bool
	)

	addImage := func(id string) {
		if id == "" || imageSeen[id] {
			return
		}
		imageSeen[id] = true
		imageIDs = append(imageIDs, id)
	}

	flushRun := func() {
		text := runText.String()
		if runUnderline {
			if seg := strings.TrimSpace(text); seg != "" {
				underlined = append(underlined, seg)
			}
		}
		paraText.WriteString(text)
		runText.Reset()
		runUnderline = false
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				paraText.Reset()
				runText.Reset()
				runUnderline = false
				underlined = nil
				imageIDs = nil
				imageSeen = make(map[string]bool)
			case "r":
				if inPara {
					flushRun()
				}
			case "rPr":
				inRunProps = true
			case "u":
				if inRunProps {
					val := attrValue(t, "val")
					runUnderline = val != "none"
				}
			case "t":
				if inPara && !inRunProps {
					inText = true
				}
			case "br", "cr":
				if inPara && !inRunProps {
					runText.WriteString("\n")
				}
			case "blip":
				if inPara {
					if id := attrValue(t, "embed"); id != "" {
						addImage(id)
					} else {
						addImage(attrValue(t, "link"))
					}
				}
			case "imagedata":
				if inPara {
					addImage(attrValue(t, "id"))
				}
			}

		case xml.CharData:
			if inText {
				runText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "rPr":
				inRunProps = false
			case "t":
				inText = false
			case "r":
				if inPara {
					flushRun()
				}
			case "p":
				if !inPara {
					continue
				}
				flushRun()
				inPara = false
				p := finalizeParagraph(paraText.String(), imageIDs, underlined)
				if p.Text == "" && len(p.ImageIDs) == 0 {
					continue
				}
				out = append(out, p)
			}
		}
	}

	return out, nil
}

// finalizeParagraph normalizes the concatenated run text and applies the
// textual underline marker as a secondary underline signal: each marker both
// records its letter as underlined and disappears from the visible text.
func finalizeParagraph(text string, imageIDs, underlined []string) Paragraph {
	text = NormalizeText(text)
	if underlineMarkerRe.MatchString(text) {
		text = underlineMarkerRe.ReplaceAllStringFunc(text, func(m string) string {
			letter := underlineMarkerRe.FindStringSubmatch(m)[1]
			underlined = append(underlined, letter)
			return ""
		})
		// Removing a marker can leave doubled spaces behind.
		text = hspaceRe.ReplaceAllString(text, " ")
	}
	text = newlineTrimRe.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	return Paragraph{
		Text:         text,
		ImageIDs:     imageIDs,
		HasUnderline: len(underlined) > 0,
		Underlined:   underlined,
	}
}

func attrValue(el xml.StartElement, local string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
