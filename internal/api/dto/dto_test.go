package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		want string
	}{
		{"valid", LoginRequest{Email: "ceo@example.com", Password: "secret1"}, ""},
		{"missing email", LoginRequest{Password: "secret1"}, "email is required"},
		{"missing password", LoginRequest{Email: "ceo@example.com"}, "password is required"},
		{"malformed email", LoginRequest{Email: "not-an-email", Password: "secret1"}, "email is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.req.Validate())
		})
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:       "new@example.com",
		Name:        "Dilnoza",
		Surname:     "Rashidova",
		Password:    "secret1",
		Confirm:     "secret1",
		CompanyCode: "ACME",
	}
	require.Empty(t, valid.Validate())

	short := valid
	short.Password, short.Confirm = "abc", "abc"
	require.Equal(t, "password must be at least 6 characters", short.Validate())

	mismatch := valid
	mismatch.Confirm = "secret2"
	require.Equal(t, "passwords do not match", mismatch.Validate())

	noCompany := valid
	noCompany.CompanyCode = ""
	require.Equal(t, "company code is required", noCompany.Validate())
}

func TestPaymentRequestPayloadStatusMapping(t *testing.T) {
	paid := PaymentRequest{ProjectName: "hosting", Status: "Paid"}.Payload()
	require.NotNil(t, paid.Paid)
	require.True(t, *paid.Paid)

	pending := PaymentRequest{ProjectName: "hosting", Status: "Pending"}.Payload()
	require.NotNil(t, pending.Paid)
	require.False(t, *pending.Paid)

	// An absent status leaves the flag untouched so partial updates do not
	// flip it.
	partial := PaymentRequest{ProjectName: "hosting"}.Payload()
	require.Nil(t, partial.Paid)
}
