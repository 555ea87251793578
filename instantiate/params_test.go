package instantiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParamsTokenListsBecomeSets(t *testing.T) {
	params := map[string]any{
		"allowed_special":    []any{"<|a|>", "<|b|>", "<|a|>"},
		"disallowed_special": []string{"x"},
		"other":              []string{"left", "alone"},
	}

	normalized, err := NormalizeParams(params)
	require.NoError(t, err)

	allowed, ok := normalized["allowed_special"].(map[string]struct{})
	require.True(t, ok)
	assert.Len(t, allowed, 2)
	assert.Contains(t, allowed, "<|a|>")
	assert.Contains(t, allowed, "<|b|>")

	disallowed, ok := normalized["disallowed_special"].(map[string]struct{})
	require.True(t, ok)
	assert.Len(t, disallowed, 1)

	assert.Equal(t, []string{"left", "alone"}, normalized["other"])
}

func TestNormalizeParamsDecodesKwargs(t *testing.T) {
	normalized, err := NormalizeParams(map[string]any{
		"model_kwargs": `{"top_p": 0.9, "stop": ["\n"]}`,
	})
	require.NoError(t, err)

	decoded, ok := normalized["model_kwargs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.9, decoded["top_p"])
}

func TestNormalizeParamsDecodesKwargsArray(t *testing.T) {
	normalized, err := NormalizeParams(map[string]any{
		"stop_kwargs": `[1, 2]`,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, normalized["stop_kwargs"])
}

func TestNormalizeParamsKwargsAlreadyDecoded(t *testing.T) {
	in := map[string]any{"search_kwargs": map[string]any{"k": 3}}
	normalized, err := NormalizeParams(in)
	require.NoError(t, err)
	assert.Equal(t, in["search_kwargs"], normalized["search_kwargs"])
}

func TestNormalizeParamsMalformedKwargs(t *testing.T) {
	_, err := NormalizeParams(map[string]any{"model_kwargs": "{not json"})
	require.Error(t, err)

	var malformed *MalformedParameterError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "model_kwargs", malformed.Param)
}

func TestNormalizeParamsDoesNotMutateInput(t *testing.T) {
	in := map[string]any{
		"allowed_special": []string{"a", "a"},
		"model_kwargs":    `{"k": 1}`,
	}

	_, err := NormalizeParams(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a"}, in["allowed_special"])
	assert.Equal(t, `{"k": 1}`, in["model_kwargs"])
}
