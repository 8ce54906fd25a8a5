// Package render produces the downloadable DOCX and PDF artifacts from the
// final story text. Both renderers are pure: same input, same bytes.
package render

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"storyforge/internal/ooxml"
)

// DocxTitle is the fixed heading placed above the story body.
const DocxTitle = "História de Usuário (CWS)"

// epoch pins the PDF metadata dates so output is reproducible.
var epoch = time.Unix(0, 0).UTC()

// DOCX renders the text as a document with the fixed title heading followed
// by one paragraph per input line, empty lines included.
func DOCX(text string) ([]byte, error) {
	return ooxml.WriteDocx(DocxTitle, strings.Split(text, "\n"))
}

// PDF renders single-font fixed-size body text. Characters outside Latin-1
// are replaced before layout; the legacy page encoding cannot carry them.
func PDF(text string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.MultiCell(0, 10, ToLatin1(text), "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
