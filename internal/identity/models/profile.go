package models

// UserProfileUpdate is what a user may change about themself. OldPassword
// and NewPassword are both required to change the password.
type UserProfileUpdate struct {
	Username      string `validate:"required"`
	FirstName     string `validate:"required,max=50"`
	MiddleInitial string `validate:"max=1"`
	LastName      string `validate:"required,max=50"`
	EmailAddress  string `validate:"required,email,max=100"`
	MobileNumber  string `validate:"max=20"`
	OldPassword   string
	NewPassword   string
}

func (p *UserProfileUpdate) IsChangePassword() bool {
	return p.OldPassword != "" && p.NewPassword != ""
}
