package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPorts(t *testing.T) {
	search := &mockSearchService{}
	index := &mockIndexService{}

	p := NewPorts(search, index)

	assert.Equal(t, search, p.Search)
	assert.Equal(t, index, p.Index)
	assert.False(t, p.AutoIngest)
	assert.NoError(t, p.Validate())
}

func TestPorts_Validate_IndexOptional(t *testing.T) {
	p := NewPorts(&mockSearchService{}, nil)

	assert.NoError(t, p.Validate())
}

func TestPorts_Validate_Missing(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrInvalidPorts)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingSearchService)
}
