// Package session owns the client's authentication token.
//
// The Store is the single source of truth for the current token and the
// derived "authenticated" state. The token is kept in the active storage
// backend under TokenKey; clearing it removes the key from every
// configured backend.
//
// Tokens are decoded but never verified here: signature checks belong to
// the backend. Decoding is soft, a malformed token is reported as absent
// and never produces an error or a panic:
//
//	claims, ok := session.DecodeToken(raw)
//	if !ok {
//	    // treat as signed out
//	}
//
// A token counts as expired Skew (60s by default) before its literal exp,
// so requests already in flight do not race the server's own check.
package session
