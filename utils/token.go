package utils

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt"
)

// IsWellFormedToken reports whether the string looks like a JWT: non-empty and
// carrying the dot delimiters that separate header, claims and signature. The
// wizard never verifies signatures locally; the backend does that.
func IsWellFormedToken(token string) bool {
	return token != "" && strings.Count(token, ".") == 2
}

// TokenClaims extracts the claim set from a token without verifying its
// signature.
func TokenClaims(tokenString string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenSubject extracts the subject (user ID) from a token string.
func TokenSubject(tokenString string) (string, error) {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
