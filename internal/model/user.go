package model

import "time"

// Role is the capability tier of a user.  The three tiers form a
// total order: USER < ADMIN < SUPERADMIN.  Comparisons go through
// AtLeast instead of scattered string equality so the ordering lives
// in exactly one place.
type Role string

const (
    RoleUser       Role = "USER"
    RoleAdmin      Role = "ADMIN"
    RoleSuperAdmin Role = "SUPERADMIN"
)

// roleRank maps each role to its position in the ordering.  Unknown
// roles rank below USER so a malformed claim never passes a gate.
var roleRank = map[Role]int{
    RoleUser:       1,
    RoleAdmin:      2,
    RoleSuperAdmin: 3,
}

// Valid reports whether r is one of the three known tiers.
func (r Role) Valid() bool {
    _, ok := roleRank[r]
    return ok
}

// AtLeast reports whether r grants at least the capability of min.
func (r Role) AtLeast(min Role) bool {
    return roleRank[r] >= roleRank[min]
}

// ParseRole normalizes a raw string into a Role.  The boolean is
// false when the input is not a known tier.
func ParseRole(s string) (Role, bool) {
    r := Role(s)
    return r, r.Valid()
}

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown on orders.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – capability tier (USER, ADMIN, SUPERADMIN).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
