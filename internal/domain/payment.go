package domain

import (
	"strings"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentMobileWallet PaymentMethod = "mobile_wallet"
	PaymentDebitCard    PaymentMethod = "debit_card"
)

// PaymentMethods lists the accepted methods in the order terminals display them.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentMobileWallet, PaymentDebitCard}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentMobileWallet, PaymentDebitCard:
		return true
	}
	return false
}

func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentMobileWallet:
		return "Mobile Wallet"
	case PaymentDebitCard:
		return "Debit Card"
	}
	return string(m)
}

func (m PaymentMethod) String() string {
	return string(m)
}

// ParsePaymentMethod accepts the wire form ("credit_card") as well as the labels
// terminals show ("Credit Card", "GCash").
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch normalized {
	case "cash":
		return PaymentCash, nil
	case "credit_card", "creditcard", "credit":
		return PaymentCreditCard, nil
	case "mobile_wallet", "mobilewallet", "gcash", "e_wallet", "ewallet":
		return PaymentMobileWallet, nil
	case "debit_card", "debitcard", "debit":
		return PaymentDebitCard, nil
	}

	return "", NewValidationError("payment method %q is not supported", s)
}
