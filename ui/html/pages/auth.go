package pages

type LoginFormParams struct {
	Email          string
	FieldErrors    map[string]string
	NonFieldErrors []string
}

type SignupFormParams struct {
	Username       string
	Email          string
	FieldErrors    map[string]string
	NonFieldErrors []string
}
