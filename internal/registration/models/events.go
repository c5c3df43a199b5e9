package models

import "time"

// UserCreated is published once an identity exists for a new subject.
type UserCreated struct {
	SubjectID            string    `json:"subjectId"`
	Email                string    `json:"email"`
	CountryCode          string    `json:"countryCode"`
	MobileNo             string    `json:"mobileNo"`
	Channel              Channel   `json:"channel"`
	AuthorizationBytes   string    `json:"authorizationBytes,omitempty"`
	MainnetWalletID      string    `json:"mainnetWalletId,omitempty"`
	TestnetWalletID      string    `json:"testnetWalletId,omitempty"`
	EncryptedWalletBytes string    `json:"encryptedWalletBytes,omitempty"`
	EncryptedPassphrase  string    `json:"encryptedPassphrase,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// KycUserProvisioned is emitted by the KYC service after it creates its user.
type KycUserProvisioned struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
}

// ReferralBountyGranted is emitted by the referral service.
type ReferralBountyGranted struct {
	SubjectID string `json:"subjectId"`
	BountyID  string `json:"bountyId"`
}

// BiometricIDEncrypted is emitted by the biometric-id service.
type BiometricIDEncrypted struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
}
