package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotri/internal/models"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, stripFences(tc.in))
	}
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, isCredentialError(errors.New("API key not valid")))
	assert.True(t, isCredentialError(errors.New("rpc error: code = PermissionDenied desc = permission denied")))
	assert.False(t, isCredentialError(errors.New("context deadline exceeded")))
}

func TestAssistantWithoutAPIKeyIsNotConfigured(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	assistant := NewGeminiAssistant()

	_, err := assistant.AnalyzeWaste(context.Background(), AnalyzeInput{Query: "glass jar"})
	require.ErrorIs(t, err, models.ErrNotConfigured)

	_, err = assistant.Chat(context.Background(), "glass jar", models.BinGlass, nil, "why?")
	require.ErrorIs(t, err, models.ErrNotConfigured)
}
