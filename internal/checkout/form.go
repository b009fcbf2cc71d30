package checkout

import (
	"regexp"
	"strings"

	"github.com/angelmondragon/storefront/internal/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Payment methods shown on the checkout form. Only cash is accepted.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
)

const maxNoteLength = 500

var phonePattern = regexp.MustCompile(`^\d{9,11}$`)

// Form is the checkout form.
type Form struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,phone"`
	Address       string `json:"address" validate:"required"`
	Note          string `json:"note" validate:"max=500"`
	PaymentMethod string `json:"paymentMethod"`
}

// Prefill seeds the form from the signed-in user.
func Prefill(u *session.User) Form {
	f := Form{PaymentMethod: PaymentCash}
	if u == nil {
		return f
	}
	f.Name = u.Name
	f.Email = u.Email
	f.Phone = u.Phone
	f.Address = u.Address
	return f
}

func (f Form) normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.Note = strings.TrimSpace(f.Note)
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	if f.PaymentMethod == "" {
		f.PaymentMethod = PaymentCash
	}
	return f
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]map[string]string{
	"Name":    {"required": "please enter your full name"},
	"Email":   {"required": "please enter your email", "email": "invalid email address"},
	"Phone":   {"required": "please enter your phone number", "phone": "invalid phone number"},
	"Address": {"required": "please enter your address"},
	"Note":    {"max": "note must be at most 500 characters"},
}

var fieldKeys = map[string]string{
	"Name":    "name",
	"Email":   "email",
	"Phone":   "phone",
	"Address": "address",
	"Note":    "note",
}

// Validate returns a validation error with one message per failing field.
func (f Form) Validate() error {
	details := map[string]string{}
	if err := formValidator.Struct(f); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				details[fieldKeys[fe.StructField()]] = fieldMessages[fe.StructField()][fe.Tag()]
			}
		} else {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
		}
	}
	switch f.PaymentMethod {
	case PaymentCash:
	case PaymentBankTransfer:
		details["paymentMethod"] = "bank transfer is not supported yet"
	default:
		details["paymentMethod"] = "unknown payment method"
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}
