package auth

import (
	"time"

	"github.com/marshallshelly/pebble-orm/pkg/schema"
)

func init() {
	schema.RegisterTableName("User", "users")
}

// User is a marketplace account. The same struct is the pebble-orm model
// (po tags) and the API representation (json tags); Password holds the bcrypt
// hash and is never serialized.
//
// table_name: users
type User struct {
	ID        int       `json:"id" po:"id,primaryKey,serial"`
	FirstName string    `json:"firstName" po:"first_name,varchar(100),notNull"`
	LastName  string    `json:"lastName" po:"last_name,varchar(100),notNull"`
	Email     string    `json:"email" po:"email,varchar(255),unique,notNull"`
	Password  string    `json:"-" po:"password,varchar(255),notNull"`
	Address   string    `json:"address" po:"address,text,notNull"`
	CreatedAt time.Time `json:"createdAt" po:"created_at,timestamptz,default(NOW()),notNull"`
}

// UserUpdate lists the profile fields a user may change. Nil fields are left
// untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Address   *string
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Address == nil
}
