package firebase

import (
	"context"
	"fmt"
	"strings"
)

const devTokenPrefix = "dev:"

// DevTokenVerifier accepts "dev:<uid>" bearer tokens so the API can be driven
// locally without a Firebase project. Never enable it outside development.
type DevTokenVerifier struct{}

func NewDevTokenVerifier() *DevTokenVerifier {
	return &DevTokenVerifier{}
}

func (DevTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, ok := strings.CutPrefix(token, devTokenPrefix)
	if !ok || strings.TrimSpace(uid) == "" {
		return "", fmt.Errorf("not a dev token")
	}
	return uid, nil
}

// DevToken builds the bearer token DevTokenVerifier accepts for uid.
func DevToken(uid string) string {
	return devTokenPrefix + uid
}
