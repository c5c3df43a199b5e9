package peers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	dErrors "onboarding/pkg/domain-errors"
)

type KYC struct {
	client *Client
}

func NewKYC(client *Client) *KYC {
	return &KYC{client: client}
}

// WalletExists reports whether KYC already links a wallet to the subject.
func (k *KYC) WalletExists(ctx context.Context, subjectID string) (bool, error) {
	query := url.Values{}
	query.Set("subjectId", subjectID)
	resp, err := k.client.Do(ctx, http.MethodGet, "/kyc/wallet", query, nil)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(resp.Get("data.walletID").String()) != "", nil
}

func (k *KYC) DeleteUser(ctx context.Context, subjectID string) error {
	_, err := k.client.Do(ctx, http.MethodDelete, "/kyc/users/"+url.PathEscape(subjectID), nil, nil)
	return err
}
