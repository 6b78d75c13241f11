//go:build integration

package app

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/storefront-cart/internal/testutil"
)

// TestMain sets up a shared MongoDB container for all app integration tests in this package.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
}

func getSharedContainerURI() string {
	return testutil.GetSharedContainerURI()
}

func sanitizeDBNameForApp(testName string) string {
	return testutil.SanitizeDBName(testName)
}
