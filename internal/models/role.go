package models

// Permission bits. A role's Permissions column is the sum of the bits it holds.
const (
	PermissionFollow   = 1
	PermissionComment  = 2
	PermissionWrite    = 4
	PermissionModerate = 8
	PermissionAdmin    = 16
)

// Role groups users under a named permission bitmask. Exactly one role is
// flagged as the default and is assigned to new users at registration.
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:64;uniqueIndex"`
	Default     bool   `json:"default" gorm:"index"`
	Permissions int    `json:"permissions"`
}

// AddPermission grants a permission bit. Adding an already-held bit is a no-op.
func (r *Role) AddPermission(perm int) {
	if !r.HasPermission(perm) {
		r.Permissions += perm
	}
}

// RemovePermission revokes a permission bit. Removing an unheld bit is a no-op.
func (r *Role) RemovePermission(perm int) {
	if r.HasPermission(perm) {
		r.Permissions -= perm
	}
}

// ResetPermissions clears the bitmask.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// HasPermission reports whether every bit of perm is held.
func (r *Role) HasPermission(perm int) bool {
	return r.Permissions&perm == perm
}
