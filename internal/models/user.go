package models

// User represents a registered account.
//
// Groups is the denormalized list of group ids this user belongs to. It is
// appended on create/join and pruned when a referenced group no longer
// exists (self-healing against an earlier partial dual write).
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"uid"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for sign-in.
	Email string `json:"email"`

	// DOB is the user's date of birth as entered at registration (YYYY-MM-DD).
	DOB string `json:"dob,omitempty"`

	// Contact is the user's phone number.
	Contact string `json:"contact,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// Groups is the ordered list of group ids the user belongs to.
	Groups []string `json:"groups"`

	// CreatedAt is the Unix millisecond timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// Profile is the public subset of a User shown to other group members.
type Profile struct {
	ID   string `json:"uid"`
	Name string `json:"name"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name}
}
