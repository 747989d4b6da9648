package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickethub/config"
)

func writeMessages(t *testing.T, dir, lang, content string) {
	t.Helper()
	path := filepath.Join(dir, "messages_"+lang+".properties")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()

	writeMessages(t, dir, "pt", "# comentários\nlogin.title=Entrar\ngreeting=Olá, %s!\n")
	writeMessages(t, dir, "en", "login.title=Sign in\ngreeting=Hello, %s!\n")

	catalog, err := NewCatalog(&config.Config{Language: "pt", TranslationsDir: dir})
	require.NoError(t, err)
	return catalog
}

func TestCatalog_Get(t *testing.T) {
	catalog := newTestCatalog(t)

	assert.Equal(t, "pt", catalog.Language())
	assert.Equal(t, "Entrar", catalog.Get("login.title"))

	// unknown keys come back verbatim
	assert.Equal(t, "missing.key", catalog.Get("missing.key"))
}

func TestCatalog_GetFormat(t *testing.T) {
	catalog := newTestCatalog(t)
	assert.Equal(t, "Olá, Alice!", catalog.GetFormat("greeting", "Alice"))
}

func TestCatalog_SetLanguage(t *testing.T) {
	catalog := newTestCatalog(t)

	notified := 0
	unsubscribe := catalog.Subscribe(func() { notified++ })

	require.NoError(t, catalog.SetLanguage("en"))
	assert.Equal(t, "en", catalog.Language())
	assert.Equal(t, "Sign in", catalog.Get("login.title"))
	assert.Equal(t, 1, notified)

	// same language again is a no-op, no notification
	require.NoError(t, catalog.SetLanguage("en"))
	assert.Equal(t, 1, notified)

	unsubscribe()
	require.NoError(t, catalog.SetLanguage("pt"))
	assert.Equal(t, 1, notified)
}

func TestCatalog_SetLanguage_MissingFileKeepsTable(t *testing.T) {
	catalog := newTestCatalog(t)

	err := catalog.SetLanguage("xx")
	assert.Error(t, err)
	assert.Equal(t, "pt", catalog.Language())
	assert.Equal(t, "Entrar", catalog.Get("login.title"))
}

func TestNewCatalog_MissingLanguage(t *testing.T) {
	_, err := NewCatalog(&config.Config{Language: "xx", TranslationsDir: t.TempDir()})
	assert.Error(t, err)
}
