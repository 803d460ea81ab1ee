package api

// UserResponse is the external representation of a user record. The
// password digest is deliberately absent: no API response ever carries it.
type UserResponse struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CreateUserRequest is the body of POST /users. Gender defaults to "male"
// and Role to "user" when omitted.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest is the body of PUT and PATCH /users/{id}. Every field
// is optional; absent fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}
