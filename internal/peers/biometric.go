package peers

import (
	"context"
	"net/http"
	"net/url"

	"onboarding/internal/registration/ports"
)

type BiometricID struct {
	client *Client
}

func NewBiometricID(client *Client) *BiometricID {
	return &BiometricID{client: client}
}

type encryptRequest struct {
	WalletBytes string `json:"walletBytes"`
	Passphrase  string `json:"passphrase"`
}

func (b *BiometricID) Encrypt(ctx context.Context, walletBytes, passphrase string) (*ports.EncryptedWallet, error) {
	resp, err := b.client.Do(ctx, http.MethodPost, "/selfyid/encrypt", nil, encryptRequest{
		WalletBytes: walletBytes,
		Passphrase:  passphrase,
	})
	if err != nil {
		return nil, err
	}
	return &ports.EncryptedWallet{
		WalletBytes: resp.Get("data.encryptedWalletBytes").String(),
		Passphrase:  resp.Get("data.encryptedPassphrase").String(),
	}, nil
}

func (b *BiometricID) DeleteRecord(ctx context.Context, subjectID string) error {
	_, err := b.client.Do(ctx, http.MethodDelete, "/selfyid/records/"+url.PathEscape(subjectID), nil, nil)
	return err
}
