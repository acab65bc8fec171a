package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string   `validate:"omitempty,valid_name,max=20"`
	Username string   `validate:"required,valid_username"`
	Bio      string   `validate:"no_emoji"`
	Skills   []string `validate:"tag_list"`
}

func TestCustomValidators(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		err := v.Struct(sample{Name: "Ana O'Neil", Username: "ana.lima", Bio: "I teach salsa", Skills: []string{"Salsa", "Go"}})
		assert.NoError(t, err)
	})

	t.Run("bad username", func(t *testing.T) {
		err := v.Struct(sample{Username: "a b"})
		require.Error(t, err)
		assert.Contains(t, Message(err), "Username")
	})

	t.Run("emoji bio", func(t *testing.T) {
		err := v.Struct(sample{Username: "sam", Bio: "hi 😀"})
		require.Error(t, err)
		assert.Contains(t, Message(err), "emoji")
	})

	t.Run("blank skill", func(t *testing.T) {
		err := v.Struct(sample{Username: "sam", Skills: []string{"Go", "  "}})
		require.Error(t, err)
		assert.Contains(t, Message(err), "Skills")
	})

	t.Run("too many skills", func(t *testing.T) {
		skills := make([]string, MaxSkills+1)
		for i := range skills {
			skills[i] = "s"
		}
		err := v.Struct(sample{Username: "sam", Skills: skills})
		assert.Error(t, err)
	})

	t.Run("name with digits symbols", func(t *testing.T) {
		err := v.Struct(sample{Username: "sam", Name: "<script>"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(Message(err), "Name:"))
	})
}

func TestFormatCamelCase(t *testing.T) {
	assert.Equal(t, "Total Sessions", formatCamelCase("TotalSessions"))
}
