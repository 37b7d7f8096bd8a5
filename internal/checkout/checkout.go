// Package checkout holds the step validation and shipping cost rules shared
// by the checkout wizard and the order submission path.
package checkout

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"

	"github.com/google/uuid"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

// ErrInvalid marks a failed step validation. Handlers map it to 400.
var ErrInvalid = errors.New("invalid checkout input")

var phoneRe = regexp.MustCompile(`^[+\d\s()-]+$`)

// PaymentMethodAvailable reports whether a payment method can be selected.
// Cash on delivery is the only live method; the rest are placeholders.
func PaymentMethodAvailable(method string) bool {
	return method == "cash_on_delivery"
}

// ShippingInput is what the shipping step collects. Authenticated buyers pick
// a saved address; guests fill the contact fields and drop a map pin.
type ShippingInput struct {
	AddressID *uuid.UUID

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Latitude  *float64
	Longitude *float64
}

// ValidateShipping gates the shipping step. authenticated selects between the
// saved-address path and the guest path. Whether a selected address actually
// exists is checked by the order service against the address book.
func ValidateShipping(in ShippingInput, authenticated bool) error {
	if authenticated {
		if in.AddressID == nil || *in.AddressID == uuid.Nil {
			return fmt.Errorf("%w: select a shipping address", ErrInvalid)
		}
		return nil
	}

	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: malformed email address", ErrInvalid)
	}
	if !phoneRe.MatchString(in.Phone) {
		return fmt.Errorf("%w: malformed phone number", ErrInvalid)
	}
	if in.Latitude == nil || in.Longitude == nil {
		return fmt.Errorf("%w: delivery location is required", ErrInvalid)
	}
	return nil
}

// ValidateStep gates forward navigation through the wizard. The payment step
// is always passable (cash on delivery is pre-selected) and the review step
// re-validates shipping, so a submission can never outrun step one.
func ValidateStep(step Step, in ShippingInput, authenticated bool) error {
	switch step {
	case StepShipping, StepReview:
		return ValidateShipping(in, authenticated)
	case StepPayment:
		return nil
	default:
		return fmt.Errorf("%w: unknown checkout step %d", ErrInvalid, step)
	}
}

// ShippingMode selects how the shipping fee is charged.
type ShippingMode string

const (
	ShippingAlwaysFree         ShippingMode = "always_free"
	ShippingAlwaysCharged      ShippingMode = "always_charged"
	ShippingFreeAboveThreshold ShippingMode = "free_above_threshold"
)

// ShippingCost is a pure function of the policy and the order subtotal.
// Unknown modes charge the fee rather than silently shipping for free.
func ShippingCost(mode ShippingMode, subtotal, threshold, fee float64) float64 {
	switch mode {
	case ShippingAlwaysFree:
		return 0
	case ShippingFreeAboveThreshold:
		if subtotal >= threshold {
			return 0
		}
		return fee
	default:
		return fee
	}
}
