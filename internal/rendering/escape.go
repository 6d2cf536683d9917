// Package rendering renders resume snapshots as HTML previews and LaTeX source.
package rendering

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	"•", `\textbullet{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats specially: \ { } $ & % # ^ _ ~
// The bullet marker becomes \textbullet{} so pasted bullets survive pdflatex.
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}

// urlReplacer covers the characters \href arguments cannot take verbatim
var urlReplacer = strings.NewReplacer(`\`, `/`, `%`, `\%`, `#`, `\#`, `{`, `%7B`, `}`, `%7D`)

// EscapeURL prepares a link target for \href
func EscapeURL(url string) string {
	return urlReplacer.Replace(strings.TrimSpace(url))
}
