package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// mathRegionRe matches block ($$...$$) before inline ($...$) math so a block
// region is never split into two inline ones.
var mathRegionRe = regexp.MustCompile(`\$\$[^$]*\$\$|\$[^$\n]+\$`)

// placeholderRe matches the control-character placeholders Sanitize uses to
// protect math regions. The form cannot occur in document text.
var placeholderRe = regexp.MustCompile("\x00(\\d+)\x00")

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitize escapes the markup-unsafe characters &, < and > while leaving
// inline and block math regions untouched. The count and order of math
// regions is never altered.
func Sanitize(s string) string {
	var regions []string
	protected := mathRegionRe.ReplaceAllStringFunc(s, func(m string) string {
		regions = append(regions, m)
		return "\x00" + strconv.Itoa(len(regions)-1) + "\x00"
	})

	protected = htmlEscaper.Replace(protected)

	return placeholderRe.ReplaceAllStringFunc(protected, func(m string) string {
		idx, _ := strconv.Atoi(placeholderRe.FindStringSubmatch(m)[1])
		return regions[idx]
	})
}
