// Package extract turns an uploaded document into a single text blob.
// Errors never escape: every failure is folded into a marker string so a
// garbled upload degrades the pipeline input instead of aborting the run.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"storyforge/internal/ooxml"
)

const (
	// UnsupportedMessage is returned verbatim for unknown extensions.
	UnsupportedMessage = "Formato não suportado."
	errPrefix          = "Erro ao ler arquivo: "
)

// IsSoftFailure reports whether an extraction result is one of the marker
// strings rather than real document text.
func IsSoftFailure(s string) bool {
	return s == UnsupportedMessage || strings.HasPrefix(s, errPrefix)
}

func softFail(err error) string {
	return errPrefix + err.Error()
}

// Extract converts the uploaded file into plain text based on its extension.
func Extract(name string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "txt", "md":
		if !utf8.Valid(data) {
			return softFail(fmt.Errorf("conteúdo não é UTF-8 válido"))
		}
		return string(data)
	case "pdf":
		text, err := pdfText(data)
		if err != nil {
			return softFail(err)
		}
		return text
	case "docx":
		paras, err := ooxml.DocxParagraphs(data)
		if err != nil {
			return softFail(err)
		}
		return strings.Join(paras, "\n")
	case "pptx":
		shapes, err := ooxml.PptxShapeTexts(data)
		if err != nil {
			return softFail(err)
		}
		return strings.Join(shapes, "\n")
	case "xlsx", "xls":
		text, err := sheetText(data)
		if err != nil {
			return softFail(err)
		}
		return text
	default:
		return UnsupportedMessage
	}
}

// pdfText concatenates the plain text of every page, each followed by a
// newline. The pdf reader panics on some malformed files, hence the recover.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf corrompido: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// sheetText renders every sheet as a tab-separated text table.
func sheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	sheets := f.GetSheetList()
	for si, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		if si > 0 {
			b.WriteByte('\n')
		}
		if len(sheets) > 1 {
			b.WriteString("[" + sheet + "]\n")
		}
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
