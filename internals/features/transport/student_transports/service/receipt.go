package service

import "math/rand"

const receiptAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const ReceiptIDLength = 10

// NewReceiptID returns an opaque, human-quotable receipt number. Not a secret.
func NewReceiptID() string {
	b := make([]byte, ReceiptIDLength)
	for i := range b {
		b[i] = receiptAlphabet[rand.Intn(len(receiptAlphabet))]
	}
	return string(b)
}
