package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

func TestPlainStylesLeaveTextUntouched(t *testing.T) {
	st := stylesFor(false)

	assert.Equal(t, "civil_code.docx", st.render(st.source, "civil_code.docx"))
	assert.Equal(t, "[law]", st.badge(domain.DocTypeLaw))
	assert.Equal(t, "[memo]", st.badge(domain.DocType("memo")))
}

func TestColourStylesKeepText(t *testing.T) {
	st := stylesFor(true)

	assert.Contains(t, st.badge(domain.DocTypeFatwa), "[fatwa]")
	assert.Contains(t, st.render(st.title, "Results"), "Results")
}
