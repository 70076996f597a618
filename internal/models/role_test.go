package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	role := &Role{Name: "User"}

	role.AddPermission(PermissionFollow)
	role.AddPermission(PermissionComment)
	assert.True(t, role.HasPermission(PermissionFollow))
	assert.True(t, role.HasPermission(PermissionComment))
	assert.False(t, role.HasPermission(PermissionAdmin))

	// adding twice must not flip other bits
	before := role.Permissions
	role.AddPermission(PermissionFollow)
	assert.Equal(t, before, role.Permissions)

	role.RemovePermission(PermissionComment)
	assert.False(t, role.HasPermission(PermissionComment))
	assert.True(t, role.HasPermission(PermissionFollow))

	// removing an absent permission is a no-op
	role.RemovePermission(PermissionComment)
	assert.True(t, role.HasPermission(PermissionFollow))

	role.ResetPermissions()
	assert.EqualValues(t, 0, role.Permissions)
	assert.False(t, role.HasPermission(PermissionFollow))
}

func TestUserCan(t *testing.T) {
	user := &User{Role: &Role{Name: "Moderator"}}
	user.Role.AddPermission(PermissionFollow)
	user.Role.AddPermission(PermissionComment)
	user.Role.AddPermission(PermissionWrite)
	user.Role.AddPermission(PermissionModerate)

	assert.True(t, user.Can(PermissionModerate))
	assert.False(t, user.Can(PermissionAdmin))
	assert.False(t, user.IsAdmin())

	admin := &User{Role: &Role{Name: "Administrator"}}
	admin.Role.AddPermission(PermissionAdmin)
	assert.True(t, admin.IsAdmin())

	// a user with no loaded role can do nothing
	anon := &User{}
	assert.False(t, anon.Can(PermissionFollow))
}

func TestTargetKindValid(t *testing.T) {
	for _, kind := range []TargetKind{TargetPost, TargetComment, TargetBlog, TargetBlogComment, TargetPlatform, TargetPlatformComment} {
		assert.True(t, kind.Valid(), string(kind))
	}
	assert.False(t, TargetKind("story").Valid())
	assert.False(t, TargetKind("").Valid())
}

func TestCommentKind(t *testing.T) {
	assert.Equal(t, TargetComment, (&Comment{ParentKind: TargetPost}).CommentKind())
	assert.Equal(t, TargetBlogComment, (&Comment{ParentKind: TargetBlog}).CommentKind())
	assert.Equal(t, TargetPlatformComment, (&Comment{ParentKind: TargetPlatform}).CommentKind())
}
