package auth

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TwoFactorAuthenticator issues and checks authenticator-app secrets.
type TwoFactorAuthenticator interface {
	GenerateSecret(accountName string) (otpURI string, secret string, err error)
	VerifyCode(secret, code string) bool
}

type Authenticator struct {
	Issuer string
}

func NewAuthenticator(issuer string) *Authenticator {
	return &Authenticator{Issuer: issuer}
}

// GenerateSecret uses SHA1 for Google Authenticator compatibility.
func (a *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.Issuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.URL(), key.Secret(), nil
}

func (a *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
