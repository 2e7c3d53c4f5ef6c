package browser

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/checkoutpage/internal/crawler"
	"github.com/v0xg/checkoutpage/internal/wait"
)

const fixture = `<!doctype html>
<html><body>
<div class="field">
  <input id="city" value="Paris">
  <div class="sylius-validation-error">This value should not be blank.</div>
</div>
<select id="country">
  <option value="">Select</option><option value="FR">France</option><option value="DE">Germany</option>
  <option value="GQ">Equatorial Guinea</option><option value="GN">Guinea</option>
</select>
<input id="terms" type="checkbox">
<div id="province"></div>
<div id="panel" style="display: none"><input type="password"></div>
<button id="submit" onclick="this.textContent = 'Sent'; return false">Send</button>
<a id="login" href="#">Sign in</a>
<a href="#" onclick="document.title = 'left'; return false">Back to store</a>
<script>
  document.getElementById('country').addEventListener('change', () => {
    setTimeout(() => {
      document.getElementById('province').innerHTML = '<input name="provinceName">';
    }, 300);
  });
</script>
</body></html>`

func launchForTest(t *testing.T) (*RodSession, string) {
	t.Helper()

	if _, found := launcher.LookPath(); !found {
		t.Skip("no Chromium installed")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(fixture))
	}))
	t.Cleanup(srv.Close)

	s, err := Launch(Options{Width: 800, Height: 600, Headless: true, Timeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Navigate(srv.URL))
	return s, srv.URL
}

func TestRodSession(t *testing.T) {
	s, _ := launchForTest(t)

	t.Run("lookup", func(t *testing.T) {
		assert.True(t, s.Has("#city"))
		assert.False(t, s.Has("#street"))

		_, err := s.Find("#street")
		require.ErrorIs(t, err, ErrElementNotFound)
	})

	t.Run("values", func(t *testing.T) {
		city, err := s.Find("#city")
		require.NoError(t, err)

		v, err := city.Value()
		require.NoError(t, err)
		assert.Equal(t, "Paris", v)

		require.NoError(t, city.SetValue("Lyon"))
		v, err = city.Value()
		require.NoError(t, err)
		assert.Equal(t, "Lyon", v)
	})

	t.Run("ancestors", func(t *testing.T) {
		city, err := s.Find("#city")
		require.NoError(t, err)

		field, err := city.Parent()
		require.NoError(t, err)
		isField, err := field.HasClass("field")
		require.NoError(t, err)
		assert.True(t, isField)

		msg, err := field.Find(".sylius-validation-error")
		require.NoError(t, err)
		text, err := msg.Text()
		require.NoError(t, err)
		assert.Equal(t, "This value should not be blank.", text)

		_, err = field.Find(".red.label")
		require.ErrorIs(t, err, ErrElementNotFound)

		html, err := s.Find("html")
		require.NoError(t, err)
		_, err = html.Parent()
		require.ErrorIs(t, err, ErrElementNotFound)
	})

	t.Run("select and wait", func(t *testing.T) {
		country, err := s.Find("#country")
		require.NoError(t, err)

		require.NoError(t, country.SelectOption("Select"))
		require.NoError(t, country.SelectOption("FR"))
		v, err := country.Value()
		require.NoError(t, err)
		assert.Equal(t, "FR", v)

		require.ErrorIs(t, country.SelectOption("Atlantis"), ErrElementNotFound)

		require.NoError(t, country.SelectOption("Guinea"))
		v, err = country.Value()
		require.NoError(t, err)
		assert.Equal(t, "GN", v)

		require.ErrorIs(t, country.SelectOption("Guin"), ErrElementNotFound)
		require.NoError(t, country.SelectOption("France"))

		assert.True(t, wait.True(5*time.Second, wait.DefaultInterval, func() bool {
			return s.Has(`[name="provinceName"]`)
		}))
	})

	t.Run("activation", func(t *testing.T) {
		submit, err := s.Find("#submit")
		require.NoError(t, err)
		require.NoError(t, submit.Press())

		login, err := s.Find("#login")
		require.NoError(t, err)
		require.ErrorIs(t, login.Press(), ErrElementNotFound)
		require.NoError(t, login.Click())

		terms, err := s.Find("#terms")
		require.NoError(t, err)
		require.NoError(t, terms.Check())
		checked, err := terms.IsChecked()
		require.NoError(t, err)
		assert.True(t, checked)

		require.NoError(t, s.ClickLink("Back to store"))
		require.ErrorIs(t, s.ClickLink("Checkout"), ErrElementNotFound)
	})

	t.Run("visibility", func(t *testing.T) {
		password, err := s.Find(`input[type='password']`)
		require.NoError(t, err)
		visible, err := password.IsVisible()
		require.NoError(t, err)
		assert.False(t, visible)
	})

	t.Run("snapshot", func(t *testing.T) {
		formMap, err := crawler.Snapshot(s.Page())
		require.NoError(t, err)

		bySelector := map[string]crawler.Control{}
		for _, c := range formMap.Controls {
			bySelector[c.Selector] = c
		}
		require.Contains(t, bySelector, "#city")
		assert.Equal(t, "input", bySelector["#city"].Tag)
		assert.True(t, bySelector["#city"].Visible)
		assert.Equal(t, "select", bySelector["#country"].Tag)
		assert.Contains(t, bySelector, `[name="provinceName"]`)
	})

	t.Run("screenshot", func(t *testing.T) {
		data, err := s.Screenshot()
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})
}
