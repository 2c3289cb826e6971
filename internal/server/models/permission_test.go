package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_AddPermission_ReplacesInPlace(t *testing.T) {
	g := Group{ID: 1, Title: "editors"}
	g.AddPermission(Permission{ID: 3, Key: "edit", Title: "Edit"})
	g.AddPermission(Permission{ID: 1, Key: "view", Title: "View"})
	g.AddPermission(Permission{ID: 3, Key: "edit", Title: "Edit pages"})

	assert.Equal(t, []Permission{
		{ID: 3, Key: "edit", Title: "Edit pages"},
		{ID: 1, Key: "view", Title: "View"},
	}, g.Permissions)

	p, ok := g.Permission(1)
	assert.True(t, ok)
	assert.Equal(t, "view", p.Key)

	_, ok = g.Permission(42)
	assert.False(t, ok)
}

func TestGroup_HasPermission_IsExactAndCaseSensitive(t *testing.T) {
	g := Group{Permissions: []Permission{{ID: 1, Key: "edit"}}}

	assert.True(t, g.HasPermission("edit"))
	assert.False(t, g.HasPermission("Edit"))
	assert.False(t, g.HasPermission("edi"))
	assert.False(t, g.HasPermission(""))
}

func TestUserView_HasPermission(t *testing.T) {
	var nilView *UserView
	assert.False(t, nilView.HasPermission("edit"))

	noGroup := &UserView{ID: 1}
	assert.False(t, noGroup.HasPermission("edit"))

	v := &UserView{ID: 1, Group: &Group{Permissions: []Permission{{ID: 1, Key: "edit"}}}}
	assert.True(t, v.HasPermission("edit"))
}
