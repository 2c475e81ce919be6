package utils

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// Minimal internal validator to avoid external dependency. Supports:
// - required
// - url (http/https with a host)
// - suiaddr (0x-prefixed 64 hex chars)
// - codeok (task code: letters, numbers, hyphen, underscore, 1-64 chars)
// - pwdmin (min length 6)

var (
	reSuiAddr = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	reCodeOK  = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)
)

// IsValidSuiAddress checks the network's address format contract.
func IsValidSuiAddress(addr string) bool {
	return reSuiAddr.MatchString(strings.TrimSpace(addr))
}

// IsValidURL accepts only absolute http(s) URLs.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			switch {
			case p == "required":
				if sval == "" {
					return errors.New(field.Name + " is required")
				}
			case p == "url":
				if sval != "" && !IsValidURL(sval) {
					return errors.New(field.Name + " must be a valid http(s) URL")
				}
			case p == "suiaddr":
				if sval != "" && !IsValidSuiAddress(sval) {
					return errors.New(field.Name + " must be a 0x-prefixed 64 character hex address")
				}
			case p == "codeok":
				if sval != "" && !reCodeOK.MatchString(sval) {
					return errors.New(field.Name + " contains invalid characters")
				}
			case p == "pwdmin":
				if len(sval) < 6 {
					return errors.New(field.Name + " must be at least 6 characters")
				}
			}
		}
	}
	return nil
}
