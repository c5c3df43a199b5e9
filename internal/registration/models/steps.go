package models

// StepKind is one saga step whose completion is recorded as a CompletionRecord.
type StepKind string

const (
	StepIdentityRecordCreated StepKind = "identity_record_created"
	StepKycUserCreated        StepKind = "kyc_user_created"
	StepKycWalletLinked       StepKind = "kyc_wallet_linked"
	StepBiometricIDEncrypted  StepKind = "biometric_id_encrypted"
	StepWalletCreated         StepKind = "wallet_created"
	StepReferralBountyGranted StepKind = "referral_bounty_granted"
)

// AllSteps is the closed set of step kinds in declaration order.
var AllSteps = []StepKind{
	StepIdentityRecordCreated,
	StepKycUserCreated,
	StepKycWalletLinked,
	StepBiometricIDEncrypted,
	StepWalletCreated,
	StepReferralBountyGranted,
}

// TotalStepKinds is the number of defined step kinds.
var TotalStepKinds = len(AllSteps)

func (k StepKind) String() string {
	return string(k)
}

// IsValid reports whether k belongs to the closed set.
func (k StepKind) IsValid() bool {
	for _, s := range AllSteps {
		if s == k {
			return true
		}
	}
	return false
}

// ParseStepKind validates a stored step kind.
func ParseStepKind(s string) (StepKind, bool) {
	k := StepKind(s)
	return k, k.IsValid()
}

// Channel is the onboarding path a user came through.
type Channel string

const (
	ChannelMobile Channel = "mobile"
	ChannelWeb    Channel = "web"
)

func (c Channel) IsValid() bool {
	return c == ChannelMobile || c == ChannelWeb
}

// requiredSteps lists, per channel, the steps that must be recorded before an
// attempt counts as complete. Both channels can reach every step: mobile gets
// wallet steps from the onboarding request and KYC provisioning, web gets
// them from the deferred wallet creation call.
var requiredSteps = map[Channel][]StepKind{
	ChannelMobile: AllSteps,
	ChannelWeb:    AllSteps,
}

// RequiredSteps returns the steps a channel must record to be complete.
func RequiredSteps(c Channel) []StepKind {
	if steps, ok := requiredSteps[c]; ok {
		return steps
	}
	return AllSteps
}

// DistinctSteps collapses duplicate kinds, keeping first-seen order and
// dropping kinds outside the closed set.
func DistinctSteps(kinds []StepKind) []StepKind {
	seen := make(map[StepKind]struct{}, len(kinds))
	out := make([]StepKind, 0, len(kinds))
	for _, k := range kinds {
		if !k.IsValid() {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// MissingSteps returns the required steps for c that are not in recorded.
func MissingSteps(c Channel, recorded []StepKind) []StepKind {
	have := make(map[StepKind]struct{}, len(recorded))
	for _, k := range recorded {
		have[k] = struct{}{}
	}
	var missing []StepKind
	for _, k := range RequiredSteps(c) {
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// IsComplete is the completion predicate: every required step for the
// channel has been recorded at least once. Duplicates never count twice.
func IsComplete(c Channel, recorded []StepKind) bool {
	return len(MissingSteps(c, recorded)) == 0
}
