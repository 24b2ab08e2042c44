package numpyop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// loadTikToken loads an encoding, skipping when its ranks cannot be
// fetched (short mode or no network).
func loadTikToken(t *testing.T, name string) *TikToken {
	t.Helper()
	if testing.Short() {
		t.Skip("tiktoken encodings are downloaded on first use")
	}
	tok, err := NewTikToken(name)
	if err != nil {
		t.Skipf("encoding %s unavailable: %v", name, err)
	}
	return tok
}

func TestNewTikToken_InvalidEncoding(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
	assert.Nil(t, tok)
	assert.Contains(t, err.Error(), "invalid_encoding_xyz")
}

func TestNewTikTokenForModel_Unknown(t *testing.T) {
	tok, err := NewTikTokenForModel("no-such-model")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestTikToken_Roundtrip(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")
	assert.Equal(t, "cl100k_base", tok.Name())

	tests := []struct {
		name string
		text string
	}{
		{"simple text", "Hello, world!"},
		{"with newlines", "Hello\nWorld\n"},
		{"unicode", "Hello 世界! 🌍"},
		{"long text", "The quick brown fox jumps over the lazy dog. " +
			"This is a longer piece of text to test tokenization."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := tok.Encode(tt.text)
			require.NoError(t, err)
			require.NotEmpty(t, ids)
			assert.Equal(t, tt.text, tok.Decode(ids))
		})
	}

	ids, err := tok.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTokenize_WithTikToken(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")
	want, err := tok.Encode("hello world")
	require.NoError(t, err)

	o, err := NewTokenize(TokenizeConfig{
		Inputs:    []string{"text"},
		Outputs:   []string{"ids"},
		Tokenizer: tok,
		ToLower:   true,
		MaxLength: len(want) + 2,
	})
	require.NoError(t, err)

	out, err := o.Forward([]any{"Hello World"}, op.State{})
	require.NoError(t, err)
	ids := out[0].(*tensor.Tensor)
	require.Equal(t, tensor.Shape{len(want) + 2}, ids.Shape())

	got := make([]int32, len(want))
	for i := range got {
		got[i] = int32(ids.At(i))
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "hello world", tok.Decode(got))
	assert.Equal(t, float32(0), ids.At(len(want)+1))
}
