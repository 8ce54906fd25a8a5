// Package ooxml reads and writes the minimal subset of Office Open XML
// needed here: paragraph text out of .docx, shape text out of .pptx, and a
// flat .docx writer. OOXML packages are plain zip archives of XML parts, so
// archive/zip plus encoding/xml cover the whole contract.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

func openPart(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("part %s not found", name)
}

// DocxParagraphs returns the text of every paragraph in word/document.xml,
// in document order. Empty paragraphs come back as empty strings.
func DocxParagraphs(data []byte) ([]string, error) {
	part, err := openPart(data, "word/document.xml")
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(bytes.NewReader(part))
	var (
		paras   []string
		current strings.Builder
		inPara  bool
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			case "br":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paras = append(paras, current.String())
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paras, nil
}

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PptxShapeTexts returns the text of every text-bearing shape across all
// slides, one entry per shape, slides in presentation order.
func PptxShapeTexts(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	type slidePart struct {
		n    int
		file *zip.File
	}
	var slides []slidePart
	for _, f := range zr.File {
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slidePart{n: n, file: f})
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	var shapes []string
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return nil, fmt.Errorf("open slide %d: %w", s.n, err)
		}
		part, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read slide %d: %w", s.n, err)
		}
		slideShapes, err := slideShapeTexts(part)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.n, err)
		}
		shapes = append(shapes, slideShapes...)
	}
	return shapes, nil
}

func slideShapeTexts(part []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(part))
	var (
		shapes  []string
		current strings.Builder
		inBody  bool
		inText  bool
		started bool
	)
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
			case "txBody":
				inBody = true
				started = false
				current.Reset()
			case "t":
				inText = inBody
			case "p":
				if inBody {
					if started {
						current.WriteByte('\n')
					}
					started = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "txBody":
				if inBody {
					shapes = append(shapes, current.String())
					inBody = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return shapes, nil
}
