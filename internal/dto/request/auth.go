package request

// CredentialsRequest is the login and signup form.
type CredentialsRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}
