// Package errors defines the typed error taxonomy returned by the
// evaluation pipeline. Expected business conditions (sanctioned country,
// over-limit amount, no compatible rail) are returned as values of these
// types, never as panics.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error classification for callers that need to
// translate failures into localized user-facing messages.
type Code string

const (
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodeValidation          Code = "VALIDATION_FAILED"
	CodeComplianceRejected  Code = "COMPLIANCE_REJECTED"
	CodeNoRoute             Code = "NO_ROUTE"
	CodeRateUnavailable     Code = "RATE_PROVIDER_UNAVAILABLE"
	CodeUnsupportedCurrency Code = "UNSUPPORTED_CURRENCY"
)

// ValidationError reports malformed or out-of-range request data. The
// caller can recover by correcting the input.
type ValidationError struct {
	Code   Code
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Errors, "; "))
}

// NewValidationError builds a ValidationError with the generic code.
func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Errors: errs}
}

// NewInvalidAmountError builds a ValidationError for amount failures.
func NewInvalidAmountError(errs ...string) *ValidationError {
	return &ValidationError{Code: CodeInvalidAmount, Errors: errs}
}

// ComplianceRejectedError is terminal for the transfer. It carries the
// reasons and the documents the caller must collect before resubmitting.
type ComplianceRejectedError struct {
	Reasons           []string
	RequiredDocuments []string
	RiskTier          string
}

func (e *ComplianceRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", CodeComplianceRejected, strings.Join(e.Reasons, "; "))
}

// NoRouteError indicates no rail supports the request's currency/country
// combination. Terminal; the caller may retry with a different pair.
type NoRouteError struct {
	TargetCurrency   string
	SenderCountry    string
	RecipientCountry string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("%s: no compatible route for %s (%s -> %s)",
		CodeNoRoute, e.TargetCurrency, e.SenderCountry, e.RecipientCountry)
}

// RateUnavailableError indicates every rate provider failed and no cached
// value exists. Retryable after backoff.
type RateUnavailableError struct {
	Base  string
	Quote string
	Cause error
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s/%s", CodeRateUnavailable, e.Base, e.Quote)
}

func (e *RateUnavailableError) Unwrap() error { return e.Cause }

// CodeOf extracts the classification code from any pipeline error, or
// empty when the error is not part of the taxonomy.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var ce *ComplianceRejectedError
	if errors.As(err, &ce) {
		return CodeComplianceRejected
	}
	var ne *NoRouteError
	if errors.As(err, &ne) {
		return CodeNoRoute
	}
	var re *RateUnavailableError
	if errors.As(err, &re) {
		return CodeRateUnavailable
	}
	return ""
}

// IsValidation reports whether err is a recoverable input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsComplianceRejected reports whether err is a compliance rejection.
func IsComplianceRejected(err error) bool {
	var ce *ComplianceRejectedError
	return errors.As(err, &ce)
}

// IsNoRoute reports whether err means no compatible rail exists.
func IsNoRoute(err error) bool {
	var ne *NoRouteError
	return errors.As(err, &ne)
}

// IsRateUnavailable reports whether err is a retryable rate failure.
func IsRateUnavailable(err error) bool {
	var re *RateUnavailableError
	return errors.As(err, &re)
}
