package desk

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/etnz/sbudesk"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidForm matches every *FormError.
var ErrInvalidForm = errors.New("invalid form")

// FormError lists the fields rejected by the client side checks.
type FormError struct {
	Fields map[string]string // field name to message
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = name + " " + e.Fields[name]
	}
	return strings.Join(msgs, ", ")
}

func (e *FormError) Is(target error) bool { return target == ErrInvalidForm }

// LoginForm holds the credentials typed by the user.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// SaleForm is a sale to submit. Day 0 stands for today.
type SaleForm struct {
	SBUID  int             `validate:"gt=0"`
	Amount decimal.Decimal `validate:"gt=0"`
	Day    int             `validate:"min=0,max=31"`
}

// ExpenseForm is an expense to submit. Day 0 stands for today, the category
// is mandatory.
type ExpenseForm struct {
	SBUID    int             `validate:"gt=0"`
	Amount   decimal.Decimal `validate:"gt=0"`
	Day      int             `validate:"min=0,max=31"`
	Category string          `validate:"required,max=64"`
}

// EmployeeForm creates an account.
type EmployeeForm struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"strongpassword"`
	Role     string `validate:"oneof=staff admin"`
}

// SBUForm creates a business unit.
type SBUForm struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

// RatesForm sets the currency conversion rates.
type RatesForm struct {
	SalesRate   decimal.Decimal `validate:"gt=0"`
	ExpenseRate decimal.Decimal `validate:"gt=0"`
	BudgetRate  decimal.Decimal `validate:"gt=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// decimals are checked by their float value
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return sbudesk.PasswordStrength(fl.Field().String()).Valid()
	})
	return v
}

// check validates form and turns validator errors into a *FormError.
func (d *Desk) check(form any) error {
	err := d.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FormError{Fields: make(map[string]string)}
	for _, ve := range verrs {
		fe.Fields[ve.Field()] = message(ve)
	}
	return fe
}

func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "min":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(ve.Param(), " ", ", "))
	case "strongpassword":
		pw, _ := ve.Value().(string)
		s := sbudesk.PasswordStrength(pw)
		return fmt.Sprintf("is %s, it needs %s", strings.ToLower(s.Label()), strings.Join(s.Missing(), ", "))
	}
	return "is invalid (" + ve.Tag() + ")"
}
