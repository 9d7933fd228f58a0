package model

// Phone is the optional phone number submitted with a signup form.
type Phone struct {
	Number   string `json:"number"`
	DialCode string `json:"dialCode"`
}

// IsZero reports whether every part of the phone is empty.
func (p *Phone) IsZero() bool {
	return p == nil || (p.Number == "" && p.DialCode == "")
}

// SignupInput holds validated, still plaintext signup form values.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"-"`
	ConfirmPassword string `json:"-"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	TermsAccepted   bool   `json:"terms"`
	Phone           *Phone `json:"phone,omitempty"`
}

// Credentials provider/type values stored on Account records created by signup.
const (
	AccountTypeCredentials     = "credentials"
	AccountProviderCredentials = "credentials"
)
