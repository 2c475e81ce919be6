package utils

import (
	"strings"
	"testing"
)

func TestIsValidSuiAddress(t *testing.T) {
	valid := "0x" + strings.Repeat("ab12", 16)
	if !IsValidSuiAddress(valid) {
		t.Fatalf("expected %s to be valid", valid)
	}
	if !IsValidSuiAddress("  " + valid + " ") {
		t.Fatalf("expected surrounding whitespace to be trimmed")
	}
	for _, bad := range []string{
		"",
		"0x1234",
		strings.Repeat("ab12", 16),
		"0x" + strings.Repeat("zz12", 16),
		valid + "ff",
	} {
		if IsValidSuiAddress(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	for _, good := range []string{"https://github.com/org/repo/pull/1", "http://localhost:3000/x"} {
		if !IsValidURL(good) {
			t.Fatalf("expected %q to be valid", good)
		}
	}
	for _, bad := range []string{"", "ftp://host/x", "github.com/pr/1", "https://"} {
		if IsValidURL(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Code      string `validate:"required,codeok"`
		PrURL     string `validate:"url"`
		Recipient string `validate:"suiaddr"`
		Password  string `validate:"pwdmin"`
	}

	ok := payload{
		Code:      "T-001",
		PrURL:     "https://github.com/org/repo/pull/1",
		Recipient: "0x" + strings.Repeat("0f", 32),
		Password:  "hunter22",
	}
	if err := ValidateStruct(&ok); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	missing := ok
	missing.Code = ""
	if err := ValidateStruct(&missing); err == nil {
		t.Fatal("expected required failure")
	}

	badCode := ok
	badCode.Code = "bad code!"
	if err := ValidateStruct(&badCode); err == nil {
		t.Fatal("expected codeok failure")
	}

	badURL := ok
	badURL.PrURL = "not-a-url"
	if err := ValidateStruct(&badURL); err == nil {
		t.Fatal("expected url failure")
	}

	badAddr := ok
	badAddr.Recipient = "0x1234"
	if err := ValidateStruct(&badAddr); err == nil {
		t.Fatal("expected suiaddr failure")
	}

	shortPwd := ok
	shortPwd.Password = "abc"
	if err := ValidateStruct(&shortPwd); err == nil {
		t.Fatal("expected pwdmin failure")
	}
}
