package cli

import (
	"context"

	"github.com/tidwall/pretty"
)

// Get fetches path and prints the JSON body. Repeating a request for the
// same path while it is outstanding is refused.
func (a *App) Get(ctx context.Context, path string) error {
	done, ok := a.busy.start("get:" + path)
	if !ok {
		printlnFn("Request for", path, "is already in progress")
		return ErrBusy
	}
	defer done()

	raw, err := a.resources.Get(ctx, path)
	if err != nil {
		a.report(ctx, "get", err)
		return err
	}
	printlnFn(string(pretty.Pretty(raw)))
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		a.report(ctx, "ping", err)
		return err
	}
	printlnFn("Server is up")
	return nil
}
