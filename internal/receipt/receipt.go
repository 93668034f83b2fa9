// Package receipt validates e-Kassa fiscal receipt links and turns them into
// line items.
package receipt

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

const (
	Host    = "monitoring.e-kassa.gov.az"
	VATRate = 0.18
)

var (
	ErrInvalidURL          = errors.New("invalid URL format")
	ErrUnsupportedProvider = errors.New("only e-Kassa receipts are accepted")
)

type Line struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
	VAT      float64 `json:"vat"`
}

type Receipt struct {
	StoreName     string    `json:"storeName"`
	StoreAddress  string    `json:"storeAddress"`
	TaxID         string    `json:"taxId"`
	ReceiptNumber string    `json:"receiptNumber"`
	Cashier       string    `json:"cashier"`
	IssuedAt      time.Time `json:"issuedAt"`
	Items         []Line    `json:"items"`
	Subtotal      float64   `json:"subtotal"`
	TotalVAT      float64   `json:"totalVat"`
	Total         float64   `json:"total"`
	URL           string    `json:"url"`
}

// ValidateURL checks that qr is an absolute http(s) link to the e-Kassa
// monitoring site.
func ValidateURL(qr string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(qr))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	if !strings.EqualFold(u.Hostname(), Host) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, u.Hostname())
	}
	return u, nil
}

var sampleLines = []struct {
	name     string
	price    float64
	quantity int
}{
	{"Grocery Item 1", 5.99, 2},
	{"Grocery Item 2", 12.50, 1},
	{"Grocery Item 3", 3.25, 3},
}

// Parse builds the receipt for qr. The e-Kassa site offers no API, so the
// lines are a fixed sample keyed by the document id.
func Parse(qr string, now time.Time) (Receipt, error) {
	u, err := ValidateURL(qr)
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{
		StoreName:     "Store Name",
		StoreAddress:  "Store Address",
		TaxID:         "VÖEN",
		ReceiptNumber: receiptNumber(u),
		Cashier:       "Cashier",
		IssuedAt:      now,
		URL:           qr,
	}

	for _, s := range sampleLines {
		total := s.price * float64(s.quantity)
		vat := total * VATRate

		r.Items = append(r.Items, Line{
			Name:     s.name,
			Quantity: s.quantity,
			Price:    s.price,
			Total:    round2(total),
			VAT:      round2(vat),
		})
		r.Subtotal += total - vat
		r.TotalVAT += vat
		r.Total += total
	}

	r.Subtotal = round2(r.Subtotal)
	r.TotalVAT = round2(r.TotalVAT)
	r.Total = round2(r.Total)
	return r, nil
}

func receiptNumber(u *url.URL) string {
	id := u.Query().Get("doc")
	if id == "" {
		id = u.Fragment
	}
	if id == "" {
		return "UNKNOWN"
	}
	if runes := []rune(id); len(runes) > 12 {
		id = string(runes[:12])
	}
	return id
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
