// Package cli provides the interactive dashboard command-line client.
//
// The REPL signs the user in, keeps an eye on token expiry in the
// background, and lets the user query the marketplace API. Sign-in
// navigations raised by the request interceptor or by a password change
// are delivered through Router and handled before the next prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
