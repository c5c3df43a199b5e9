package peers

import (
	"context"
	"net/http"

	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
)

const accountTypeIndividual = "INDIVIDUAL"

type Wallet struct {
	client *Client
}

func NewWallet(client *Client) *Wallet {
	return &Wallet{client: client}
}

func (w *Wallet) GeneratePassphrase(ctx context.Context) (string, error) {
	resp, err := w.client.Do(ctx, http.MethodGet, "/wallets/passphrase", nil, nil)
	if err != nil {
		return "", err
	}
	passphrase := resp.Get("data.passphrase").String()
	if passphrase == "" {
		return "", dErrors.New(dErrors.CodeDependencyRejected, "wallet service returned no passphrase")
	}
	return passphrase, nil
}

type createWalletRequest struct {
	AuthorizationBytes string `json:"authorizationBytes"`
	Passphrase         string `json:"passphrase"`
	AccountType        string `json:"accountType"`
	SubjectID          string `json:"subjectId"`
}

func (w *Wallet) CreateWallet(ctx context.Context, subjectID, authBytes, passphrase string) (*ports.WalletMaterial, error) {
	resp, err := w.client.Do(ctx, http.MethodPost, "/wallets", nil, createWalletRequest{
		AuthorizationBytes: authBytes,
		Passphrase:         passphrase,
		AccountType:        accountTypeIndividual,
		SubjectID:          subjectID,
	})
	if err != nil {
		return nil, err
	}
	return &ports.WalletMaterial{
		MainnetWalletID: resp.Get("data.mainnetWalletID").String(),
		TestnetWalletID: resp.Get("data.testnetWalletID").String(),
		WalletBytes:     resp.Get("data.walletBytes").String(),
		Passphrase:      passphrase,
	}, nil
}

type deviceAccessRequest struct {
	SubjectID string `json:"subjectId"`
	DeviceID  string `json:"deviceId"`
	Location  string `json:"location"`
	IPAddress string `json:"ipAddress"`
}

func (w *Wallet) RegisterDeviceAccess(ctx context.Context, access ports.DeviceAccess) error {
	_, err := w.client.Do(ctx, http.MethodPost, "/wallet/user/device/access/new", nil, deviceAccessRequest{
		SubjectID: access.SubjectID,
		DeviceID:  access.DeviceID,
		Location:  access.Location,
		IPAddress: access.IPAddress,
	})
	return err
}
