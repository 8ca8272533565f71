package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedraft-backend/models"
)

func TestTemplateRegistry_Load(t *testing.T) {
	registry := NewTemplateRegistry()

	tmpl, err := registry.Load(models.DocTypeComplaint)
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, models.DocTypeComplaint, tmpl.DocType)
	assert.NotEmpty(t, tmpl.Lines)

	_, err = registry.Load(models.DocTypeBrief)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateRegistry_GetSchema(t *testing.T) {
	registry := NewTemplateRegistry()

	schema, ok := registry.GetSchema(models.DocTypeComplaint)
	require.True(t, ok)
	require.NotNil(t, schema)
	require.Len(t, schema.Sections, 3)
	assert.Equal(t, "청구취지", schema.Sections[0].Key)
	assert.Equal(t, "청구원인", schema.Sections[1].Key)
	assert.Equal(t, "입증방법", schema.Sections[2].Key)

	_, ok = registry.GetSchema(models.DocTypeMotion)
	assert.False(t, ok)
}

func TestTemplateRegistry_GetTemplateLinesReturnsCopy(t *testing.T) {
	registry := NewTemplateRegistry()

	lines, ok := registry.GetTemplateLines(models.DocTypeComplaint)
	require.True(t, ok)
	require.NotEmpty(t, lines)

	lines[0].Text = "mutated"

	again, ok := registry.GetTemplateLines(models.DocTypeComplaint)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", again[0].Text)
}

func TestFilterConditional(t *testing.T) {
	lines := []models.Line{
		{Text: "a"},
		{Text: "b", Condition: "claim_alimony"},
		{Text: "c"},
		{Text: "d", Condition: "include_evidence_list"},
	}

	t.Run("unconditional lines always survive", func(t *testing.T) {
		filtered := FilterConditional(lines, nil)
		require.Len(t, filtered, 2)
		assert.Equal(t, "a", filtered[0].Text)
		assert.Equal(t, "c", filtered[1].Text)
	})

	t.Run("enabled conditions keep their lines in order", func(t *testing.T) {
		filtered := FilterConditional(lines, map[string]bool{
			"claim_alimony":         true,
			"include_evidence_list": true,
		})
		require.Len(t, filtered, len(lines))
		for i, line := range lines {
			assert.Equal(t, line.Text, filtered[i].Text)
		}
	})

	t.Run("disabled condition drops the line", func(t *testing.T) {
		filtered := FilterConditional(lines, map[string]bool{
			"claim_alimony":         false,
			"include_evidence_list": true,
		})
		require.Len(t, filtered, 3)
		assert.Equal(t, []string{"a", "c", "d"}, []string{filtered[0].Text, filtered[1].Text, filtered[2].Text})
	})

	t.Run("output length never exceeds input", func(t *testing.T) {
		all := map[string]bool{"claim_alimony": true, "include_evidence_list": true}
		assert.LessOrEqual(t, len(FilterConditional(lines, all)), len(lines))
	})
}
