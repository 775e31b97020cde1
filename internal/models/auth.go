package models

// TokenPair is the credential pair issued by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Empty reports whether neither token is present.
func (p TokenPair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Credentials is the body of the register and token endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
