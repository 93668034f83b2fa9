package receipt

import (
	"net/url"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		qr      string
		wantErr error
	}{
		{"valid https", "https://monitoring.e-kassa.gov.az/#/index?doc=ABC", nil},
		{"valid http", "http://monitoring.e-kassa.gov.az/check?doc=1", nil},
		{"other host", "https://example.com/?doc=1", ErrUnsupportedProvider},
		{"lookalike host", "https://monitoring.e-kassa.gov.az.evil.com/", ErrUnsupportedProvider},
		{"not a url", "hello world", ErrInvalidURL},
		{"no scheme", "monitoring.e-kassa.gov.az/?doc=1", ErrInvalidURL},
		{"ftp", "ftp://monitoring.e-kassa.gov.az/", ErrInvalidURL},
		{"empty", "", ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateURL(tt.qr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseTotals(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	r, err := Parse("https://monitoring.e-kassa.gov.az/pay?doc=ABCDEFGHIJKLMNOP", now)
	require.NoError(t, err)

	assert.Equal(t, "ABCDEFGHIJKL", r.ReceiptNumber)
	assert.Equal(t, "Store Name", r.StoreName)
	assert.Equal(t, now, r.IssuedAt)
	require.Len(t, r.Items, 3)

	assert.InDelta(t, 11.98, r.Items[0].Total, 1e-9)
	assert.InDelta(t, 2.16, r.Items[0].VAT, 1e-9)
	assert.InDelta(t, 12.50, r.Items[1].Total, 1e-9)
	assert.InDelta(t, 9.75, r.Items[2].Total, 1e-9)

	assert.InDelta(t, 34.23, r.Total, 1e-9)
	assert.InDelta(t, 6.16, r.TotalVAT, 1e-9)
	assert.InDelta(t, 28.07, r.Subtotal, 1e-9)
}

func TestParseReceiptNumber(t *testing.T) {
	now := time.Now()

	r, err := Parse("https://monitoring.e-kassa.gov.az/#XYZ123", now)
	require.NoError(t, err)
	assert.Equal(t, "XYZ123", r.ReceiptNumber)

	r, err = Parse("https://monitoring.e-kassa.gov.az/", now)
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", r.ReceiptNumber)
}

func TestReceiptNumberKeepsWholeRunes(t *testing.T) {
	r, err := Parse("https://monitoring.e-kassa.gov.az/?doc="+url.QueryEscape("ÇEKİŞÜÖĞƏçəşüöğ"), time.Now())
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(r.ReceiptNumber))
	assert.Equal(t, "ÇEKİŞÜÖĞƏçəş", r.ReceiptNumber)
}

func TestParseRejectsForeignReceipt(t *testing.T) {
	_, err := Parse("https://shop.example.com/receipt/1", time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
