package docx

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	blockMathRe  = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineMathRe = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)
	dollarRunRe  = regexp.MustCompile(`\${3,}`)
	hspaceRe     = regexp.MustCompile(`[ \t\x{00A0}]+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)

	alignEnvReplacer = strings.NewReplacer(
		`\begin{align*}`, `\begin{aligned}`,
		`\end{align*}`, `\end{aligned}`,
		`\begin{align}`, `\begin{aligned}`,
		`\end{align}`, `\end{aligned}`,
	)
)

// NormalizeText canonicalizes paragraph text: Unicode NFC, then LaTeX
// delimiter conventions, then whitespace. The steps are order-sensitive:
// delimiter rewrites must see composed characters, and the dollar-run
// collapse must run after \[...\] and \(...\) have been converted.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)

	s = blockMathRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := blockMathRe.FindStringSubmatch(m)[1]
		return "$$" + inner + "$$"
	})
	s = inlineMathRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := inlineMathRe.FindStringSubmatch(m)[1]
		return "$" + inner + "$"
	})

	// align/align* environments are not safe inside inline math delimiters.
	s = alignEnvReplacer.Replace(s)

	s = dollarRunRe.ReplaceAllString(s, "$$$$")
	s = hspaceRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return s
}
