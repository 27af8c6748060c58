// Package storetest opens throwaway stores for tests.
package storetest

import (
	"strings"
	"testing"

	"github.com/abhisek/screenwell/internal/store"
)

// Open returns an in-memory store private to t, closed on cleanup.
func Open(t testing.TB) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
