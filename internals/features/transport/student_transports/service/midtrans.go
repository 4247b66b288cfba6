// file: internals/features/transport/student_transports/service/midtrans.go
package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

/* =========================================================
   Midtrans Snap client
========================================================= */

var SnapClient snap.Client

// InitMidtrans is called once at bootstrap.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

type Checkout struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	GrossAmount int64  `json:"gross_amount"`
}

type CheckoutItem struct {
	OrderID string
	Amount  decimal.Decimal
	Name    string
}

// Gateway opens a hosted checkout for one ledger entry.
type Gateway interface {
	CreateCheckout(item CheckoutItem) (Checkout, error)
}

type SnapGateway struct{}

func (SnapGateway) CreateCheckout(item CheckoutItem) (Checkout, error) {
	// IDR has no minor unit on Snap
	gross := item.Amount.Ceil().IntPart()
	if gross <= 0 {
		return Checkout{}, errors.New("gross amount must be > 0")
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  item.OrderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       item.OrderID,
			Price:    gross,
			Qty:      1,
			Name:     truncate(item.Name, 50),
			Category: "TRANSPORT",
		}},
	}
	resp, mErr := SnapClient.CreateTransaction(req)
	if mErr != nil {
		return Checkout{}, errors.Wrap(mErr, "midtrans create transaction")
	}
	return Checkout{
		OrderID:     item.OrderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		GrossAmount: gross,
	}, nil
}

// NewOrderID is unique per attempt; Midtrans rejects reused order ids.
func NewOrderID(feeID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("TRF-%s-%d", strings.ReplaceAll(feeID.String(), "-", "")[:12], now.Unix())
}

/* =========================================================
   Notification signature
========================================================= */

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func VerifySignature(orderID, statusCode, grossAmount, serverKey, got string) bool {
	got = strings.ToLower(strings.TrimSpace(got))
	if got == "" || serverKey == "" {
		return false
	}
	want := Signature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// Settled reports whether a notification means money arrived.
func Settled(transactionStatus, fraudStatus string) bool {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return true
	case "capture":
		return fraudStatus == "" || strings.EqualFold(fraudStatus, "accept")
	}
	return false
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
