package domain

// User is a staff account. Only admins may reset the database or register
// new accounts.
type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"password,omitempty"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}
