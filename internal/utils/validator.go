// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	walletRegex = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
	txHashRegex = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("wallet_addr", validateWalletAddress)
	validate.RegisterValidation("eth_hash", validateTransactionHash)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateWalletAddress(fl validator.FieldLevel) bool {
	return walletRegex.MatchString(fl.Field().String())
}

func validateTransactionHash(fl validator.FieldLevel) bool {
	return txHashRegex.MatchString(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "wallet_addr":
		return "Wallet address must be a 0x-prefixed 40-character hex string"
	case "eth_hash":
		return "Transaction hash must be a 0x-prefixed 64-character hex string"
	default:
		return e.Field() + " is invalid"
	}
}
