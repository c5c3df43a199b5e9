package peers

import "onboarding/internal/registration/ports"

var (
	_ ports.IdentityProvider = (*IdentityProvider)(nil)
	_ ports.OTPVerifier      = (*OTP)(nil)
	_ ports.KYC              = (*KYC)(nil)
	_ ports.Wallet           = (*Wallet)(nil)
	_ ports.BiometricID      = (*BiometricID)(nil)
	_ ports.BusinessVault    = (*BusinessVault)(nil)
	_ ports.ReferralBounty   = (*ReferralBounty)(nil)
	_ ports.Notification     = (*Notification)(nil)
)
