package render

import (
	"bytes"
	"strings"
	"testing"

	"storyforge/internal/ooxml"
)

func TestDOCXParagraphsMatchInputLines(t *testing.T) {
	text := "## Título\n\nComo vendedor, quero aprovar o frete.\nDado que estou logado"
	data, err := DOCX(text)
	if err != nil {
		t.Fatalf("render docx: %v", err)
	}
	paras, err := ooxml.DocxParagraphs(data)
	if err != nil {
		t.Fatalf("re-extract: %v", err)
	}
	if len(paras) == 0 || paras[0] != DocxTitle {
		t.Fatalf("expected fixed title heading first, got %q", paras)
	}
	want := strings.Split(text, "\n")
	body := paras[1:]
	if len(body) != len(want) {
		t.Fatalf("expected %d body paragraphs, got %d", len(want), len(body))
	}
	for i := range want {
		if body[i] != want[i] {
			t.Fatalf("paragraph %d = %q, want %q", i, body[i], want[i])
		}
	}
}

func TestPDFDeterministic(t *testing.T) {
	text := "Linha A\nLinha B com acentuação: ação, café"
	a, err := PDF(text)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := PDF(text)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(a) == 0 {
		t.Fatalf("empty pdf output")
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("pdf output differs between runs")
	}
}

func TestPDFNonEmptyForEmptyText(t *testing.T) {
	data, err := PDF("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected a non-empty single-page pdf")
	}
}

func TestToLatin1(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain ascii", "plain ascii"},
		{"ação café história", "ação café história"},
		{"emoji \U0001F680 fica de fora", "emoji ? fica de fora"},
		{"travessão — e aspas “curvas”", "travessão ? e aspas ?curvas?"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ToLatin1(c.in); got != c.want {
			t.Fatalf("ToLatin1(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
