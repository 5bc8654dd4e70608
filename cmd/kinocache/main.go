// Command kinocache is the companion CLI for the kinocached daemon. It
// inspects the cache, exercises the release-name parser, and runs ad hoc
// catalog searches through the same cache the daemon uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
