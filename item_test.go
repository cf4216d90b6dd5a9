package attfetch_test

import (
	"testing"

	"github.com/attfetch/attfetch"
	"github.com/stretchr/testify/assert"
)

func TestFilterByName(t *testing.T) {
	t.Parallel()

	items := []attfetch.Item{
		{Name: "Libft", URL: "/projects/libft"},
		{Name: "get_next_line", URL: "/projects/get_next_line"},
		{Name: "ft_printf", URL: "/projects/ft_printf"},
	}

	t.Run("matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		got := attfetch.FilterByName(items, []string{"LIBFT", "Ft_Printf"})

		assert.Equal(t, []attfetch.Item{
			{Name: "Libft", URL: "/projects/libft"},
			{Name: "ft_printf", URL: "/projects/ft_printf"},
		}, got)
	})

	t.Run("preserves listing order, not query order", func(t *testing.T) {
		t.Parallel()

		got := attfetch.FilterByName(items, []string{"ft_printf", "libft"})

		assert.Equal(t, "Libft", got[0].Name)
		assert.Equal(t, "ft_printf", got[1].Name)
	})

	t.Run("returns nil for no matches", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, attfetch.FilterByName(items, []string{"minishell"}))
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		t.Parallel()

		names := []string{"libft"}
		_ = attfetch.FilterByName(items, names)

		assert.Equal(t, []string{"libft"}, names)
		assert.Len(t, items, 3)
	})
}
