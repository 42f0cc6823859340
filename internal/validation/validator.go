// Package validation holds the shared request validator and its custom rules.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"infinite-experiment/skywatch/internal/constants"
)

var (
	iataAirportRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)
	iataAirlineRegex = regexp.MustCompile(`^[A-Za-z0-9]{2}$`)

	instance *validator.Validate
	once     sync.Once
)

// Get returns the process-wide validator with the custom rules registered
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("iata_airport", validateAirport)
		_ = v.RegisterValidation("iata_airline", validateAirline)
		_ = v.RegisterValidation("cabin_class", validateCabinClass)
		instance = v
	})
	return instance
}

// Struct validates s and flattens field errors into one readable message
func Struct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "iata_airport":
		return fmt.Sprintf("%s must be a 3-letter IATA airport code", field)
	case "iata_airline":
		return fmt.Sprintf("%s must be a 2-character IATA airline code", field)
	case "cabin_class":
		return fmt.Sprintf("%s must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func validateAirport(fl validator.FieldLevel) bool {
	return iataAirportRegex.MatchString(fl.Field().String())
}

func validateAirline(fl validator.FieldLevel) bool {
	return iataAirlineRegex.MatchString(fl.Field().String())
}

func validateCabinClass(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case constants.CabinEconomy, constants.CabinPremiumEconomy, constants.CabinBusiness, constants.CabinFirst:
		return true
	}
	return false
}
