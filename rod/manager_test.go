//go:build integration

package rod_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/amzscrape/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("recycles after max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		firstPID := manager.LauncherPID()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		second := manager.Browser()

		assert.NotSame(t, first, second)
		assert.NotEqual(t, firstPID, manager.LauncherPID())
	})

	t.Run("keeps browser below max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()

		assert.Same(t, first, manager.Browser())
	})

	t.Run("launches behind a proxy", func(t *testing.T) {
		t.Parallel()

		proxy := &url.URL{Scheme: "http", Host: "127.0.0.1:3128"}
		manager, err := rod.NewBrowserManager(rod.WithBrowserProxy(proxy))
		require.NoError(t, err)
		defer manager.Close()

		assert.NotZero(t, manager.LauncherPID())
	})

	t.Run("close is idempotent and clears launcher", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)

		require.NoError(t, manager.Close())
		require.NoError(t, manager.Close())
		assert.Zero(t, manager.LauncherPID())
	})
}
