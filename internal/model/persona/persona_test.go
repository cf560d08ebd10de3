package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRoleHasPromptAndSeed(t *testing.T) {
	store := NewMemoryStore(Seed())
	for _, id := range Roles {
		assert.True(t, id.Valid(), "role %s", id)
		assert.NotEmpty(t, id.Prompt(), "role %s has no prompt", id)

		p, ok := store.FindByID(id)
		require.True(t, ok, "role %s missing from seed", id)
		assert.NotEmpty(t, p.Name)
	}
	assert.Len(t, store.List(), len(Roles))
}

func TestParseRoleID(t *testing.T) {
	id, err := ParseRoleID("coach")
	require.NoError(t, err)
	assert.Equal(t, Coach, id)

	for _, raw := range []string{"", "Coach", "po", "stakeholder"} {
		_, err := ParseRoleID(raw)
		assert.Error(t, err, "input %q", raw)
	}
	assert.Empty(t, RoleID("po").Prompt())
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].Name = "changed"

	p, ok := store.FindByID(list[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", p.Name)
}
