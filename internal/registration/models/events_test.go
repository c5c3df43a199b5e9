package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// UserCreated is consumed by other teams; its wire format is pinned.
func TestUserCreatedWireFormat(t *testing.T) {
	evt := UserCreated{
		SubjectID:            "7d8a3d52-5a51-4b8e-8d0e-2f3f2a1c9b10",
		Email:                "ada@example.com",
		CountryCode:          "44",
		MobileNo:             "7700900123",
		Channel:              ChannelMobile,
		AuthorizationBytes:   "YXV0aA==",
		MainnetWalletID:      "main-1",
		TestnetWalletID:      "test-1",
		EncryptedWalletBytes: "ZW5jLXdhbGxldA==",
		EncryptedPassphrase:  "ZW5jLXBhc3M=",
		CreatedAt:            time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := json.MarshalIndent(evt, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "user_created", out)
}
