package domain

import (
	"errors"
	"strings"
	"testing"
)

func validForm() PolicyForm {
	return PolicyForm{
		Name:       "Car Insurance",
		Type:       "AUTO",
		ExpiryDate: "2025-12-31",
	}
}

func TestParsePolicyForm_Valid(t *testing.T) {
	f := validForm()
	f.ReminderDaysBefore = "14"
	f.CurrentPrice = "350.50"
	f.Currency = "USD"

	p, err := ParsePolicyForm(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != TypeAuto {
		t.Fatalf("type = %q, want AUTO", p.Type)
	}
	if p.ReminderDaysBefore != 14 {
		t.Fatalf("reminder days = %d, want 14", p.ReminderDaysBefore)
	}
	if p.CurrentPrice == nil || *p.CurrentPrice != 350.50 {
		t.Fatalf("price not parsed: %v", p.CurrentPrice)
	}
	if p.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", p.Currency)
	}
}

func TestParsePolicyForm_NameRules(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too short", "ab", true},
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 100), false},
		{"too long", strings.Repeat("a", 101), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			f.Name = tc.value
			_, err := ParsePolicyForm(f)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error does not unwrap to ErrInvalidInput: %v", err)
			}
		})
	}
}

func TestParsePolicyForm_UnknownType(t *testing.T) {
	f := validForm()
	f.Type = "SPACESHIP"
	if _, err := ParsePolicyForm(f); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestParsePolicyForm_ExpiryDate(t *testing.T) {
	f := validForm()
	f.ExpiryDate = ""
	if _, err := ParsePolicyForm(f); err == nil {
		t.Fatal("expected error for missing expiry date")
	}

	f.ExpiryDate = "31/12/2025"
	if _, err := ParsePolicyForm(f); err == nil {
		t.Fatal("expected error for wrong date format")
	}
}

func TestParsePolicyForm_ReminderDaysDefault(t *testing.T) {
	for _, raw := range []string{"", "abc", "-3"} {
		f := validForm()
		f.ReminderDaysBefore = raw
		p, err := ParsePolicyForm(f)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if p.ReminderDaysBefore != DefaultReminderDays {
			t.Fatalf("reminder days for %q = %d, want default %d", raw, p.ReminderDaysBefore, DefaultReminderDays)
		}
	}
}

func TestParsePolicyForm_BadPriceIsDropped(t *testing.T) {
	for _, raw := range []string{"not-a-number", "-10", "12,50"} {
		f := validForm()
		f.CurrentPrice = raw
		p, err := ParsePolicyForm(f)
		if err != nil {
			t.Fatalf("price %q must not fail the form: %v", raw, err)
		}
		if p.CurrentPrice != nil {
			t.Fatalf("price %q should be dropped, got %v", raw, *p.CurrentPrice)
		}
	}
}

func TestParsePolicyForm_CurrencyDefault(t *testing.T) {
	p, err := ParsePolicyForm(validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Currency != DefaultCurrency {
		t.Fatalf("currency = %q, want default %q", p.Currency, DefaultCurrency)
	}
}

func TestNormalize_OtherCompanyClearsLogo(t *testing.T) {
	p := Policy{CompanyID: CompanyIDOther, CompanyLogoURL: "https://example.com/logo.png"}
	p.Normalize()
	if p.CompanyLogoURL != "" {
		t.Fatal("logo must be cleared for company id \"other\"")
	}
	if p.CompanyID != CompanyIDOther {
		t.Fatal("company id must be preserved")
	}
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":          true,
		"user@example.com": true,
		"a@b.c":            false, // too short
		"no-at.com":        false,
		"no-dot@com":       false,
		"":                 false,
	}
	for email, want := range cases {
		if got := ValidateEmail(email); got != want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("12345") {
		t.Fatal("5 characters must fail")
	}
	if !ValidatePassword("123456") {
		t.Fatal("6 characters must pass")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"policy.pdf":           "policy.pdf",
		"my policy (1).pdf":    "my_policy__1_.pdf",
		"../../etc/passwd":     ".._.._etc_passwd",
		"póliza año 2025.pdf":  "p_liza_a_o_2025.pdf",
		"file-name_ok.PDF":     "file-name_ok.PDF",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
