package console

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-dispatcher/internal/domain"
)

func TestProvider_Send(t *testing.T) {
	t.Parallel()
	id, err := NewProvider().Send(t.Context(), "+8613800000000", domain.MessageContent{Type: domain.ContentTypeText, Body: "你好"})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
