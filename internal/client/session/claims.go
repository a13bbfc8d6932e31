package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

// Claims is the subset of the token payload the client reads. Registered
// claims other than exp are informational and filled only when their type
// fits.
type Claims struct {
	jwt.RegisteredClaims
	Role   string
	UserID ClaimID
}

// ClaimID is an identifier encoded either as a JSON string or number.
type ClaimID string

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeToken returns the payload of a three-segment token. The signature
// is not checked. ok is false for anything that is not a base64url JSON
// object in the middle segment, and when exp, role or userId carry a type
// the client cannot read.
func DecodeToken(token string) (claims *Claims, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil || !gjson.ValidBytes(payload) {
		return nil, false
	}
	doc := gjson.ParseBytes(payload)
	if !doc.IsObject() {
		return nil, false
	}

	claims = new(Claims)
	if claims.ExpiresAt, ok = numericDate(doc.Get("exp")); !ok {
		return nil, false
	}
	if claims.Role, ok = text(doc.Get("role"), false); !ok {
		return nil, false
	}
	id, ok := text(doc.Get("userId"), true)
	if !ok {
		return nil, false
	}
	claims.UserID = ClaimID(id)

	claims.Subject, _ = text(doc.Get("sub"), true)
	claims.Issuer, _ = text(doc.Get("iss"), true)
	claims.ID, _ = text(doc.Get("jti"), true)
	claims.IssuedAt, _ = numericDate(doc.Get("iat"))
	claims.NotBefore, _ = numericDate(doc.Get("nbf"))
	return claims, true
}

// numericDate reads a seconds-since-epoch claim. A missing or null claim is
// nil and ok.
func numericDate(r gjson.Result) (*jwt.NumericDate, bool) {
	switch r.Type {
	case gjson.Null:
		return nil, true
	case gjson.Number:
		d := new(jwt.NumericDate)
		if err := d.UnmarshalJSON([]byte(r.Raw)); err != nil {
			return nil, false
		}
		return d, true
	default:
		return nil, false
	}
}

// text reads a string claim, or a number claim when numbers is set. A
// missing or null claim is empty and ok.
func text(r gjson.Result, numbers bool) (string, bool) {
	switch {
	case r.Type == gjson.Null:
		return "", true
	case r.Type == gjson.String:
		return r.Str, true
	case r.Type == gjson.Number && numbers:
		return r.Raw, true
	default:
		return "", false
	}
}
