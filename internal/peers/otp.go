package peers

import (
	"context"
	"net/http"
	"strings"

	dErrors "onboarding/pkg/domain-errors"
)

// OTPKind selects the verification channel an OTP client talks to.
type OTPKind string

const (
	OTPEmail OTPKind = "email"
	OTPSMS   OTPKind = "sms"
)

type otpPaths struct {
	request string
	verify  string
	inquire string
	field   string
}

var otpRoutes = map[OTPKind]otpPaths{
	OTPEmail: {request: "/otp/request", verify: "/otp/verify", inquire: "/otp/inquire", field: "email"},
	OTPSMS:   {request: "/otp/request", verify: "/otp/verify", inquire: "/inquiry/mobile", field: "mobileNo"},
}

// OTP is a one-time-password verification service.
type OTP struct {
	client *Client
	kind   OTPKind
	paths  otpPaths
}

func NewOTP(client *Client, kind OTPKind) *OTP {
	return &OTP{client: client, kind: kind, paths: otpRoutes[kind]}
}

func (o *OTP) body(contact, flow string, extra map[string]string) map[string]string {
	b := map[string]string{o.paths.field: contact, "requestedFlow": flow}
	for k, v := range extra {
		b[k] = v
	}
	return b
}

func (o *OTP) SendOTP(ctx context.Context, contact, flow string) error {
	resp, err := o.client.Do(ctx, http.MethodPost, o.paths.request, nil, o.body(contact, flow, nil))
	if resp == nil {
		return err
	}
	if o.kind == OTPEmail && otpStatus(resp) == http.StatusNotAcceptable {
		return dErrors.New(dErrors.CodeDependencyRejected, "email is disposable or not valid")
	}
	return o.mapStatus(resp, err)
}

func (o *OTP) VerifyOTP(ctx context.Context, contact, code, flow string) error {
	resp, err := o.client.Do(ctx, http.MethodPost, o.paths.verify, nil, o.body(contact, flow, map[string]string{"otp": code}))
	if resp == nil {
		return err
	}
	return o.mapStatus(resp, err)
}

// IsVerified reports whether contact completed verification for flow.
func (o *OTP) IsVerified(ctx context.Context, contact, flow string) (bool, error) {
	resp, err := o.client.Do(ctx, http.MethodPost, o.paths.inquire, nil, o.body(contact, flow, nil))
	if resp == nil {
		return false, err
	}
	if err := o.mapStatus(resp, err); err != nil {
		return false, err
	}
	return strings.EqualFold(resp.Get("payload.status").String(), "VERIFIED"), nil
}

// otpStatus prefers the status code carried in the body envelope, which
// these services set even on HTTP 200.
func otpStatus(resp *Response) int {
	if code := resp.Get("code"); code.Exists() && code.Int() != 0 {
		return int(code.Int())
	}
	return resp.Status
}

func (o *OTP) mapStatus(resp *Response, err error) error {
	if resp.Status >= http.StatusInternalServerError {
		return err
	}
	switch otpStatus(resp) {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusLocked:
		return dErrors.New(dErrors.CodeLocked, "retries limit reached, try again later")
	case http.StatusTooManyRequests:
		return dErrors.New(dErrors.CodeRateLimited, "retries limit reached")
	case http.StatusForbidden, http.StatusNotAcceptable:
		return dErrors.New(dErrors.CodeInvalidCode, "OTP invalid")
	case http.StatusGone:
		return dErrors.New(dErrors.CodeExpired, "OTP expired")
	case http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, "no verification found for "+string(o.kind))
	case http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, "OTP already verified")
	}
	if err != nil {
		return err
	}
	return Classify(&Response{Status: otpStatus(resp), Body: resp.Body})
}
