package service

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/shopspring/decimal"

	"order-management/internal/domain"
)

const (
	maxNameLen  = 255
	maxPhoneLen = 50
	dateLayout  = "2006-01-02"
)

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func checkName(ve *domain.ValidationError, name string) {
	if name == "" {
		ve.Add("name", "The name field is required.")
		return
	}
	if len(name) > maxNameLen {
		ve.Add("name", fmt.Sprintf("The name may not be greater than %d characters.", maxNameLen))
	}
}

func checkEmailFormat(ve *domain.ValidationError, email string) bool {
	if email == "" {
		ve.Add("email", "The email field is required.")
		return false
	}
	if !validEmail(email) {
		ve.Add("email", "The email must be a valid email address.")
		return false
	}
	return true
}

func checkPhone(ve *domain.ValidationError, phone *string) {
	if phone != nil && len(*phone) > maxPhoneLen {
		ve.Add("phone", fmt.Sprintf("The phone may not be greater than %d characters.", maxPhoneLen))
	}
}

func parseOrderDate(ve *domain.ValidationError, raw string) (time.Time, bool) {
	if raw == "" {
		ve.Add("order_date", "The order date field is required.")
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		ve.Add("order_date", "The order date is not a valid date.")
		return time.Time{}, false
	}
	return d, true
}

// checkAmount enforces the documented precision policy: negative amounts and
// amounts carrying more than two decimal digits are rejected, never rounded.
func checkAmount(ve *domain.ValidationError, amount decimal.Decimal) bool {
	if amount.IsNegative() {
		ve.Add("total_amount", "The total amount must be at least 0.")
		return false
	}
	if !amount.Equal(amount.Truncate(2)) {
		ve.Add("total_amount", "The total amount must not have more than 2 decimal places.")
		return false
	}
	return true
}

func checkStatus(ve *domain.ValidationError, raw string) (domain.Status, bool) {
	s := domain.Status(raw)
	if !s.Valid() {
		ve.Add("status", "The selected status is invalid.")
		return "", false
	}
	return s, true
}
