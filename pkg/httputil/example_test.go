package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/httputil"
)

func ExampleCache() {
	ctx := context.Background()
	dir := filepath.Join(os.TempDir(), "skillweave-example")
	defer os.RemoveAll(dir)

	store, err := cache.NewFileCache(dir)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	c := httputil.NewCache(store, nil, 24*time.Hour).Namespace("github")

	doc := map[string]string{"name": "lint", "ref": "main"}
	if err := c.Set(ctx, "acme/skills/lint", doc); err != nil {
		fmt.Println("Error:", err)
		return
	}

	var result map[string]string
	if ok, err := c.Get(ctx, "acme/skills/lint", &result); ok && err == nil {
		fmt.Println("Name:", result["name"])
		fmt.Println("Ref:", result["ref"])
	}
	// Output:
	// Name: lint
	// Ref: main
}

func ExampleRetry() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return &httputil.RetryableError{Err: errors.New("503 service unavailable")}
		}
		return nil
	})
	fmt.Println("Attempts:", attempts)
	fmt.Println("Error:", err)
	// Output:
	// Attempts: 3
	// Error: <nil>
}
