package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit/pkg/email"
)

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Your sign-in code",
			BodyHTML: "<p>XK42QZ</p>",
			Tag:      "magic-code",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".html":
				htmlFile = filepath.Join(dir, e.Name())
			case ".json":
				jsonFile = filepath.Join(dir, e.Name())
			}
		}
		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)

		body, err := os.ReadFile(htmlFile)
		require.NoError(t, err)
		assert.Contains(t, string(body), "XK42QZ")

		raw, err := os.ReadFile(jsonFile)
		require.NoError(t, err)
		var meta map[string]string
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "user@example.com", meta["send_to"])
		assert.Equal(t, "magic-code", meta["tag"])
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		sender := email.NewDevSender(t.TempDir())

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:  "not-an-email",
			Subject: "s",
		})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})
}

func TestMagicCodeMailer_SendMagicCode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mailer := email.NewMagicCodeMailer(email.NewDevSender(dir), "Acme")

	err := mailer.SendMagicCode(context.Background(), "user@example.com", "user@example.com", "XK42QZ", "https://acme.app")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var html string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".html") {
			raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			html = string(raw)
		}
	}

	require.NotEmpty(t, html)
	assert.Contains(t, html, "XK42QZ")
	assert.Contains(t, html, "Acme")
	assert.Contains(t, html, "https://acme.app")
	assert.NotContains(t, html, "key=", "the key must never be rendered")
}
