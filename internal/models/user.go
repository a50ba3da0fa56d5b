package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// IsAdmin reports whether the role may read and mutate other users'
// routines.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderNone   Gender = "none"
)

// User carries the profile fields the engine consumes: the timezone
// drives the midnight completion reset and the demographic fields feed
// the stats rollups. Credentials and sessions are handled elsewhere.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Surname     string    `json:"surname" bson:"surname"`
	Email       string    `json:"email" bson:"email"`
	Nationality string    `json:"nationality" bson:"nationality"`
	Gender      Gender    `json:"gender" bson:"gender"`
	Birthdate   time.Time `json:"birthdate" bson:"birthdate"`
	Role        Role      `json:"role" bson:"role"`
	// Timezone is an IANA zone name; empty means UTC.
	Timezone  string    `json:"timeZone,omitempty" bson:"timeZone,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Identity is the authenticated caller handed to the engine by the
// auth collaborator.
type Identity struct {
	UserID string
	Role   Role
}

// CanAccess reports whether the identity may operate on resources owned
// by the given user.
func (id Identity) CanAccess(ownerID string) bool {
	return id.UserID == ownerID || id.Role.IsAdmin()
}
