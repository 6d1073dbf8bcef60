package common

// Claim names written into the token claim set.
const (
	ClaimUsername    = "username"
	ClaimFirstName   = "firstname"
	ClaimLastName    = "lastname"
	ClaimEmail       = "email"
	ClaimAuthorities = "authorities"
)

// EnvPrefix is prepended to every environment variable the identity core reads.
const EnvPrefix = "AUTHCORE_"
