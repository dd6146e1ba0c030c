package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type form struct {
	ID   string
	Name string
}

func TestModal_Lifecycle(t *testing.T) {
	var m Modal[form]
	assert.False(t, m.IsOpen())
	assert.Equal(t, ModeClosed, m.Mode())

	m.OpenEdit(form{ID: "1", Name: "Hôtel du Lac"})
	assert.True(t, m.IsOpen())
	assert.Equal(t, ModeEdit, m.Mode())
	assert.Equal(t, "Hôtel du Lac", m.Draft().Name)

	m.OpenCreate()
	assert.Equal(t, ModeCreate, m.Mode())
	assert.Equal(t, form{}, m.Draft(), "create mode starts from a blank form")

	m.SetDraft(form{Name: "draft"})
	assert.Equal(t, "draft", m.Draft().Name)

	m.Close()
	assert.False(t, m.IsOpen())
	assert.Equal(t, form{}, m.Draft())
}

func TestModal_SetDraftWhileClosed(t *testing.T) {
	var m Modal[form]
	m.SetDraft(form{Name: "ignored"})
	assert.Equal(t, form{}, m.Draft())
}
