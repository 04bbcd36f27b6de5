package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
}

func normalise(t *testing.T, body string) string {
	t.Helper()
	raw := &domain.RawDocument{
		Path:    "/data/laws/law.docx",
		Type:    domain.DocTypeLaw,
		Content: createTestDOCX(wrapBody(body)),
	}
	text, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	return text
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().SupportedExtensions())
}

func TestNormalise_MultipleParagraphs(t *testing.T) {
	text := normalise(t, `
<w:p><w:r><w:t>المادة 1</w:t></w:r></w:p>
<w:p><w:r><w:t>يسري هذا القانون</w:t></w:r></w:p>
<w:p><w:r><w:t>المادة 2</w:t></w:r></w:p>`)

	assert.Equal(t, "المادة 1\nيسري هذا القانون\nالمادة 2", text)
}

func TestNormalise_MultipleRuns(t *testing.T) {
	text := normalise(t, `
<w:p>
<w:r><w:t xml:space="preserve">Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>`)

	assert.Equal(t, "Hello World", text)
}

func TestNormalise_DropsEmptyParagraphsAndTrims(t *testing.T) {
	text := normalise(t, `
<w:p><w:r><w:t xml:space="preserve">  first  </w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t xml:space="preserve">   </w:t></w:r></w:p>
<w:p><w:r><w:t>second</w:t></w:r></w:p>`)

	assert.Equal(t, "first\nsecond", text)
}

func TestNormalise_LineBreakSplitsParagraph(t *testing.T) {
	text := normalise(t, `<w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p>`)

	assert.Equal(t, "one\ntwo", text)
}

func TestNormalise_TableParagraphs(t *testing.T) {
	text := normalise(t, `
<w:p><w:r><w:t>before</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>after</w:t></w:r></w:p>`)

	assert.Equal(t, "before\ncell\nafter", text)
}

func TestNormalise_IgnoresTextOutsideRuns(t *testing.T) {
	text := normalise(t, `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>title</w:t></w:r></w:p>`)

	assert.Equal(t, "title", text)
}

func TestNormalise_EmptyDocument(t *testing.T) {
	assert.Empty(t, normalise(t, ""))
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_InvalidZip(t *testing.T) {
	raw := &domain.RawDocument{Path: "broken.docx", Content: []byte("not a zip file")}

	_, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MissingDocumentPart(t *testing.T) {
	raw := &domain.RawDocument{Path: "hollow.docx", Content: createTestDOCX("")}

	_, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MalformedXML(t *testing.T) {
	raw := &domain.RawDocument{Path: "bad.docx", Content: createTestDOCX("<w:document><w:body><w:p>")}

	_, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
