package response

// AuthPage backs the login and signup screens.
type AuthPage struct {
	Heading     string
	Action      string
	SubmitLabel string
	Email       string
	Error       string
	AltPath     string
	AltLabel    string
}

func LoginPage(email, errMsg string) AuthPage {
	return AuthPage{
		Heading:     "Login",
		Action:      "/login",
		SubmitLabel: "Login",
		Email:       email,
		Error:       errMsg,
		AltPath:     "/signup",
		AltLabel:    "Don't have an account? Sign up",
	}
}

func SignupPage(email, errMsg string) AuthPage {
	return AuthPage{
		Heading:     "Sign Up",
		Action:      "/signup",
		SubmitLabel: "Sign Up",
		Email:       email,
		Error:       errMsg,
		AltPath:     "/login",
		AltLabel:    "Already have an account? Login",
	}
}
