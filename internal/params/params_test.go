package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want bool
	}{
		{"complete", FromInput("JBSWY3DPEHPK3PXP", "6", "30"), true},
		{"empty secret", FromInput("", "6", "30"), false},
		{"blank secret", FromInput("   ", "6", "30"), false},
		{"empty digits", FromInput("JBSWY3DPEHPK3PXP", "", "30"), false},
		{"empty period", FromInput("JBSWY3DPEHPK3PXP", "6", ""), false},
		{"non-numeric period", FromInput("JBSWY3DPEHPK3PXP", "6", "abc"), false},
		{"zero period", FromInput("JBSWY3DPEHPK3PXP", "6", "0"), false},
		{"negative period", FromInput("JBSWY3DPEHPK3PXP", "6", "-5"), false},
		{"padded period", FromInput("JBSWY3DPEHPK3PXP", "6", " 45 "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Valid())
		})
	}
}

func TestQuery(t *testing.T) {
	q := Set{Secret: "AB CD", Digits: "8", Period: 60}.Query()
	assert.Equal(t, "AB CD", q.Get("secret"))
	assert.Equal(t, "8", q.Get("digits"))
	assert.Equal(t, "60", q.Get("period"))
	assert.Equal(t, "digits=8&period=60&secret=AB+CD", q.Encode())
}

func TestStringHidesSecret(t *testing.T) {
	s := Set{Secret: "JBSWY3DPEHPK3PXP", Digits: "6", Period: 30}
	assert.NotContains(t, s.String(), "JBSWY3DPEHPK3PXP")
	assert.Contains(t, s.String(), "period=30")
}

func TestFromURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want Set
	}{
		{
			name: "otpauth key uri",
			uri:  "otpauth://totp/Example:alice?secret=JBSWY3DPEHPK3PXP&issuer=Example&digits=8&period=60",
			want: Set{Secret: "JBSWY3DPEHPK3PXP", Digits: "8", Period: 60},
		},
		{
			name: "page url",
			uri:  "http://localhost:8080/?secret=JBSWY3DPEHPK3PXP&digits=6&period=30",
			want: Set{Secret: "JBSWY3DPEHPK3PXP", Digits: "6", Period: 30},
		},
		{
			name: "partial",
			uri:  "http://localhost:8080/?digits=7",
			want: Set{Digits: "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromURIRejectsHOTP(t *testing.T) {
	_, err := FromURI("otpauth://hotp/Example?secret=JBSWY3DPEHPK3PXP&counter=1")
	require.Error(t, err)
}

func TestOverlay(t *testing.T) {
	base := Set{Secret: "BASESECRET", Digits: "6", Period: 30}
	got := base.Overlay(Set{Digits: "8"})
	assert.Equal(t, Set{Secret: "BASESECRET", Digits: "8", Period: 30}, got)
	assert.Equal(t, "", Set{}.PeriodString())
	assert.Equal(t, "30", got.PeriodString())
}
