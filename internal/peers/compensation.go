package peers

import (
	"context"
	"net/http"
	"net/url"
)

// BusinessVault answers whether an email already belongs to a business
// vault registration.
type BusinessVault struct {
	client *Client
}

func NewBusinessVault(client *Client) *BusinessVault {
	return &BusinessVault{client: client}
}

func (b *BusinessVault) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	query := url.Values{}
	query.Set("email", email)
	resp, err := b.client.Do(ctx, http.MethodGet, "/bizvaults/email/registration/status", query, nil)
	if err != nil {
		return false, err
	}
	return resp.Get("data.bizVaultRegistered").Bool(), nil
}

type ReferralBounty struct {
	client *Client
}

func NewReferralBounty(client *Client) *ReferralBounty {
	return &ReferralBounty{client: client}
}

func (r *ReferralBounty) DeleteBounty(ctx context.Context, subjectID string) error {
	_, err := r.client.Do(ctx, http.MethodDelete, "/referral/bounties/"+url.PathEscape(subjectID), nil, nil)
	return err
}

type Notification struct {
	client *Client
}

func NewNotification(client *Client) *Notification {
	return &Notification{client: client}
}

func (n *Notification) DeleteTokens(ctx context.Context, subjectID string) error {
	_, err := n.client.Do(ctx, http.MethodDelete, "/notification/tokens/"+url.PathEscape(subjectID), nil, nil)
	return err
}
