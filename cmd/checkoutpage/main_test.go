package main

import (
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/checkoutpage/internal/address"
	"github.com/v0xg/checkoutpage/internal/browser/browsertest"
	"github.com/v0xg/checkoutpage/internal/checkout"
)

func TestRejectsUnknownAddressTypeBeforeLaunch(t *testing.T) {
	for _, sub := range []string{"fill", "compare"} {
		cmd := newRootCmd()
		cmd.SetArgs([]string{sub, "payment"})

		err := cmd.Execute()
		require.ErrorIs(t, err, address.ErrInvalidArgument, sub)
	}
}

func TestArgumentCounts(t *testing.T) {
	tests := [][]string{
		{"fill"},
		{"compare", "shipping", "billing"},
		{"audit", "extra"},
		{"sign-in"}, // --email is required
	}

	for _, args := range tests {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("CHECKOUT_BASE_URL", "http://from-env.test")
	t.Setenv("CHECKOUT_RECORD", "env.gif")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--base-url", "http://from-flag.test"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag.test", cfg.BaseURL)
	assert.Equal(t, "env.gif", cfg.Record)
	assert.True(t, cfg.Headless)
}

func TestSelectedProvider(t *testing.T) {
	t.Setenv("CHECKOUT_DEFAULT_PROVIDER", "")
	providerName = ""
	assert.Equal(t, "claude", selectedProvider())

	t.Setenv("CHECKOUT_DEFAULT_PROVIDER", "openai")
	assert.Equal(t, "openai", selectedProvider())

	providerName = "anthropic"
	defer func() { providerName = "" }()
	assert.Equal(t, "anthropic", selectedProvider())
}

func TestAuditSuggestNeedsProviderKey(t *testing.T) {
	t.Setenv("CHECKOUT_ANTHROPIC_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"audit", "--suggest", "--provider", "claude"})
	defer func() { suggest, providerName = false, "" }()

	require.ErrorContains(t, cmd.Execute(), "AI provider init failed")
}

const signInHTML = `<html><body>
<div class="field"><input id="sylius_checkout_address_customer_email"></div>
<div id="login-panel">
  <div class="field">
    <input type="password">
    <div class="ui red label hidden sylius-validation-error"></div>
  </div>
  <button id="sylius-api-login-submit">Sign in</button>
</div>
</body></html>`

func newSignInPage(t *testing.T, timeout time.Duration, onPress func(doc *goquery.Document)) *checkout.AddressPage {
	t.Helper()

	session := browsertest.MustNew(t, signInHTML)
	session.OnAction = func(action string, doc *goquery.Document) {
		if action == "press #sylius-api-login-submit" {
			onPress(doc)
		}
	}
	logger, _ := test.NewNullLogger()
	return checkout.New(session, address.NewFactory(), logger, checkout.Options{
		Timeout:      timeout,
		PollInterval: 5 * time.Millisecond,
	})
}

func TestSignInSucceedsWithoutWaitingForErrorLabel(t *testing.T) {
	page := newSignInPage(t, 2*time.Second, func(doc *goquery.Document) {
		doc.Find("#login-panel").Remove()
	})

	start := time.Now()
	require.NoError(t, signIn(page, "shop@example.com", "sylius"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestSignInReportsLoginResult(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr error
	}{
		{name: "invalid credentials", message: "Invalid credentials.", wantErr: errInvalidCredentials},
		{name: "other error", message: "Too many login attempts.", wantErr: errSignInNotCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := newSignInPage(t, 50*time.Millisecond, func(doc *goquery.Document) {
				doc.Find(".red.label").RemoveClass("hidden").SetText(tc.message)
			})

			require.ErrorIs(t, signIn(page, "shop@example.com", "wrong"), tc.wantErr)
		})
	}
}

func TestSignInWithoutErrorLabel(t *testing.T) {
	page := newSignInPage(t, 50*time.Millisecond, func(doc *goquery.Document) {
		doc.Find(".red.label").Remove()
	})

	err := signIn(page, "shop@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read login result")
}
