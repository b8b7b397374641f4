package gemini

import (
	"fmt"
	"strings"
)

// Category is a coarse hint attached to provider failures so the operator
// message can distinguish "top up your quota" from "fix your API key".
type Category string

const (
	CategoryQuota Category = "quota"
	CategoryAuth  Category = "auth"
	CategoryOther Category = "other"
)

// ProviderError wraps a transport- or provider-level failure from the
// extraction model. It is distinct from a weak extraction: when the provider
// answered at all, decoding always yields a record instead of an error.
type ProviderError struct {
	Category Category
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini: provider failure (%s): %v", e.Category, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func newProviderError(err error) *ProviderError {
	return &ProviderError{Category: categorize(err), Err: err}
}

func categorize(err error) Category {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "billing") ||
		strings.Contains(msg, "429"):
		return CategoryQuota
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403"):
		return CategoryAuth
	default:
		return CategoryOther
	}
}
