package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctSteps(t *testing.T) {
	t.Run("redelivered kinds collapse", func(t *testing.T) {
		got := DistinctSteps([]StepKind{
			StepIdentityRecordCreated,
			StepKycUserCreated,
			StepKycUserCreated,
			StepIdentityRecordCreated,
		})
		assert.Equal(t, []StepKind{StepIdentityRecordCreated, StepKycUserCreated}, got)
	})

	t.Run("unknown kinds are ignored", func(t *testing.T) {
		got := DistinctSteps([]StepKind{"selfie_taken", StepWalletCreated})
		assert.Equal(t, []StepKind{StepWalletCreated}, got)
	})

	t.Run("never exceeds the closed set", func(t *testing.T) {
		var flood []StepKind
		for i := 0; i < 10; i++ {
			flood = append(flood, AllSteps...)
		}
		assert.Len(t, DistinctSteps(flood), TotalStepKinds)
	})
}

func TestIsComplete(t *testing.T) {
	for _, ch := range []Channel{ChannelMobile, ChannelWeb} {
		t.Run(string(ch), func(t *testing.T) {
			assert.False(t, IsComplete(ch, []StepKind{StepIdentityRecordCreated, StepWalletCreated}))
			assert.True(t, IsComplete(ch, AllSteps))
		})
	}

	t.Run("duplicates do not stand in for missing steps", func(t *testing.T) {
		recorded := []StepKind{
			StepIdentityRecordCreated, StepIdentityRecordCreated, StepIdentityRecordCreated,
			StepKycUserCreated, StepKycWalletLinked, StepWalletCreated, StepReferralBountyGranted,
		}
		assert.False(t, IsComplete(ChannelMobile, recorded))
		assert.Equal(t, []StepKind{StepBiometricIDEncrypted}, MissingSteps(ChannelMobile, recorded))
	})
}

func TestNewProgress(t *testing.T) {
	attempt := &Attempt{ID: "a1", Channel: ChannelWeb}
	progress := NewProgress(attempt, []CompletionRecord{
		{Kind: StepIdentityRecordCreated},
		{Kind: StepReferralBountyGranted},
		{Kind: StepReferralBountyGranted},
	})

	assert.Equal(t, []StepKind{StepIdentityRecordCreated, StepReferralBountyGranted}, progress.Recorded)
	assert.Len(t, progress.Missing, TotalStepKinds-2)
	assert.False(t, progress.Complete)
}

func TestParseStepKind(t *testing.T) {
	k, ok := ParseStepKind("wallet_created")
	assert.True(t, ok)
	assert.Equal(t, StepWalletCreated, k)

	_, ok = ParseStepKind("WALLET_CREATED")
	assert.False(t, ok)
}
