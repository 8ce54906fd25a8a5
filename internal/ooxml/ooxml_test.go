package ooxml

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestWriteDocxRoundTrip(t *testing.T) {
	lines := []string{"Linha A", "", "Linha B & <valor>"}
	data, err := WriteDocx("Título", lines)
	if err != nil {
		t.Fatalf("write docx: %v", err)
	}
	paras, err := DocxParagraphs(data)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(paras) != len(lines)+1 {
		t.Fatalf("expected %d paragraphs, got %d: %q", len(lines)+1, len(paras), paras)
	}
	if paras[0] != "Título" {
		t.Fatalf("title paragraph = %q", paras[0])
	}
	for i, want := range lines {
		if paras[i+1] != want {
			t.Fatalf("paragraph %d = %q, want %q", i+1, paras[i+1], want)
		}
	}
}

func TestWriteDocxDeterministic(t *testing.T) {
	a, err := WriteDocx("T", []string{"x", "y"})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	b, err := WriteDocx("T", []string{"x", "y"})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("docx output differs between runs")
	}
}

func TestDocxParagraphsRejectsGarbage(t *testing.T) {
	if _, err := DocxParagraphs([]byte("not a zip at all")); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}

func buildPptx(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range slides {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestPptxShapeTexts(t *testing.T) {
	slide1 := `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:txBody><a:p><a:r><a:t>Título do slide</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:txBody><a:p><a:r><a:t>Primeira</a:t></a:r></a:p><a:p><a:r><a:t>Segunda</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`
	slide2 := `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:txBody><a:p><a:r><a:t>Slide dois</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`
	data := buildPptx(t, map[string]string{
		"ppt/slides/slide2.xml": slide2,
		"ppt/slides/slide1.xml": slide1,
	})

	shapes, err := PptxShapeTexts(data)
	if err != nil {
		t.Fatalf("pptx shapes: %v", err)
	}
	want := []string{"Título do slide", "Primeira\nSegunda", "Slide dois"}
	if len(shapes) != len(want) {
		t.Fatalf("expected %d shapes, got %d: %q", len(want), len(shapes), shapes)
	}
	for i := range want {
		if shapes[i] != want[i] {
			t.Fatalf("shape %d = %q, want %q", i, shapes[i], want[i])
		}
	}
}

func TestPptxShapeTextsNoSlides(t *testing.T) {
	data := buildPptx(t, map[string]string{"docProps/app.xml": "<x/>"})
	if _, err := PptxShapeTexts(data); err == nil {
		t.Fatalf("expected error when package has no slides")
	}
}
