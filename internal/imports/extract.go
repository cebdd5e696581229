package imports

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var extractors = map[string]func([]byte) (string, error){
	mimePDF:  pdfText,
	mimeDOCX: docxText,
	mimeText: plainText,
}

// byExtension resolves types the sniffer could not tell apart.
var byExtension = map[string]string{
	".pdf":  mimePDF,
	".docx": mimeDOCX,
	".txt":  mimeText,
	".md":   mimeText,
}

// ExtractText returns the trimmed plain text of a PDF, DOCX, text or markdown file.
func ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := normalizeMimeType(mimeType, fileName, data)
	extract, ok := extractors[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	text, err := extract(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrUnsupportedType)
	}
	return string(data), nil
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	text, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, text); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return sb.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps the text runs of document.xml, ending a line at each paragraph or
// break. Content that is not well-formed XML is returned as is.
func stripDocxXML(raw string) string {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return strings.TrimSpace(out.String())
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			out.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && out.Len() > 0 {
				out.WriteByte('\n')
			}
		}
	}
}

// normalizeMimeType reduces the sniffed type to a key of extractors where possible. The
// sniffer reports DOCX as application/zip, and unknown binaries fall back to the extension.
func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	kind, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		kind = strings.ToLower(strings.TrimSpace(mimeType))
	}
	switch kind {
	case "text/markdown":
		return mimeText
	case "application/zip":
		if hasWordPart(data) {
			return mimeDOCX
		}
	case "", "application/octet-stream":
		if byExt, ok := byExtension[strings.ToLower(filepath.Ext(fileName))]; ok {
			return byExt
		}
	}
	return kind
}

func hasWordPart(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, `\`, "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
