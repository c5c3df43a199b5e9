// Package ports declares the participant services the registration saga talks
// to. Every method returns errors coded with pkg/domain-errors; callers branch
// on the code, never on upstream status codes or messages.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"onboarding/internal/registration/models"
)

// Profile is the identity-provider user created for a new subject.
type Profile struct {
	SubjectID   string
	Email       string
	Password    string
	CountryCode string
	MobileNo    string
}

// Credentials is a resource-owner password grant.
type Credentials struct {
	Username string
	Password string
}

// Token is an identity-provider access token.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
}

// IdentityProvider owns user identities and credentials.
//
// CreateUser returns CodeConflict when the user already exists. DeleteUser
// returns CodeNotFound when there is nothing to delete. SearchByIdentifier
// reports whether a user with that name exists and returns CodeTimeout when
// the lookup exceeds its deadline.
type IdentityProvider interface {
	CreateUser(ctx context.Context, profile Profile) error
	DeleteUser(ctx context.Context, identifier string) error
	SearchByIdentifier(ctx context.Context, name string) (bool, error)
	IssueToken(ctx context.Context, creds Credentials) (*Token, error)
}

// OTPVerifier is implemented by the email and SMS verification services.
// Failures use CodeLocked, CodeRateLimited, CodeInvalidCode, CodeExpired and
// CodeNotFound.
type OTPVerifier interface {
	SendOTP(ctx context.Context, contact, flow string) error
	VerifyOTP(ctx context.Context, contact, code, flow string) error
	IsVerified(ctx context.Context, contact, flow string) (bool, error)
}

// KYC owns know-your-customer users.
type KYC interface {
	WalletExists(ctx context.Context, subjectID string) (bool, error)
	DeleteUser(ctx context.Context, subjectID string) error
}

// WalletMaterial is a server-generated wallet.
type WalletMaterial struct {
	MainnetWalletID string `json:"mainnetWalletId"`
	TestnetWalletID string `json:"testnetWalletId"`
	WalletBytes     string `json:"walletBytes"`
	Passphrase      string `json:"passphrase"`
}

// DeviceAccess pairs a device with the address it registered from.
type DeviceAccess struct {
	SubjectID string
	DeviceID  string
	IPAddress string
	Location  string
}

type Wallet interface {
	GeneratePassphrase(ctx context.Context) (string, error)
	CreateWallet(ctx context.Context, subjectID, authBytes, passphrase string) (*WalletMaterial, error)
	RegisterDeviceAccess(ctx context.Context, access DeviceAccess) error
}

// EncryptedWallet is wallet material wrapped by the biometric-id service.
type EncryptedWallet struct {
	WalletBytes string
	Passphrase  string
}

type BiometricID interface {
	Encrypt(ctx context.Context, walletBytes, passphrase string) (*EncryptedWallet, error)
	DeleteRecord(ctx context.Context, subjectID string) error
}

type BusinessVault interface {
	IsEmailRegistered(ctx context.Context, email string) (bool, error)
}

type ReferralBounty interface {
	DeleteBounty(ctx context.Context, subjectID string) error
}

type Notification interface {
	DeleteTokens(ctx context.Context, subjectID string) error
}

// EventSink accepts outbound saga events.
type EventSink interface {
	PublishUserCreated(ctx context.Context, evt models.UserCreated) error
}
