package models

import (
	"fmt"
	"net/mail"
	"strings"

	dErrors "onboarding/pkg/domain-errors"
)

// VerificationFlow is the OTP flow name used for registration.
const VerificationFlow = "registration"

// GeoLocation is the client-reported position used for device pairing.
type GeoLocation struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// String renders the location as "lat,long", or "" when unknown.
func (g GeoLocation) String() string {
	if g.Latitude == "" && g.Longitude == "" {
		return ""
	}
	return g.Latitude + "," + g.Longitude
}

// OnboardRequest is the client's registration payload.
type OnboardRequest struct {
	Email              string      `json:"email"`
	IPAddress          string      `json:"ipAddress"`
	CountryCode        string      `json:"countryCode"`
	MobileNo           string      `json:"mobileNo"`
	Password           string      `json:"password"`
	DeviceID           string      `json:"deviceId"`
	Pin                string      `json:"pin"`
	Location           GeoLocation `json:"geoLocation"`
	AuthorizationBytes string      `json:"authorizationBytes"`
	MainnetWalletID    string      `json:"mainnetWalletId"`
	TestnetWalletID    string      `json:"testnetWalletId"`
	WalletBytes        string      `json:"walletBytes"`
	Passphrase         string      `json:"passphrase"`
}

// Normalize trims whitespace and lower-cases the email in place.
func (r *OnboardRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.CountryCode = strings.TrimSpace(r.CountryCode)
	r.MobileNo = strings.TrimSpace(r.MobileNo)
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	r.MainnetWalletID = strings.TrimSpace(r.MainnetWalletID)
	r.TestnetWalletID = strings.TrimSpace(r.TestnetWalletID)
}

// Validate checks the fields the saga depends on.
func (r *OnboardRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	if r.CountryCode == "" {
		return dErrors.New(dErrors.CodeValidation, "countryCode is required")
	}
	if !isDigits(r.MobileNo) || len(r.MobileNo) < 8 || len(r.MobileNo) > 15 {
		return dErrors.New(dErrors.CodeValidation, "mobileNo must be 8 to 15 digits")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	if r.DeviceID == "" {
		return dErrors.New(dErrors.CodeValidation, "deviceId is required")
	}
	return nil
}

// Channel is mobile when the client generated the wallet itself.
func (r *OnboardRequest) Channel() Channel {
	if strings.TrimSpace(r.WalletBytes) != "" && r.MainnetWalletID != "" && r.TestnetWalletID != "" {
		return ChannelMobile
	}
	return ChannelWeb
}

// MobileContact is the SMS address for a country code and number.
func MobileContact(countryCode, mobileNo string) string {
	return fmt.Sprintf("+%s%s", strings.TrimPrefix(countryCode, "+"), mobileNo)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Outcome is returned to the caller once identity minting succeeded.
type Outcome struct {
	SubjectID string  `json:"subjectId"`
	Email     string  `json:"email"`
	Channel   Channel `json:"channel"`
}
