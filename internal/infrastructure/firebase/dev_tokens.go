package firebase

import (
	"context"
)

// GenerateLongLivedToken mints a custom token for uid and, when the web API
// key is configured, exchanges it for an ID token usable against the
// authenticated endpoints. Development helper only.
func (f *FirebaseAuthClient) GenerateLongLivedToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey != "" {
		idToken, err := f.exchangeCustomTokenForIDToken(ctx, customToken)
		if err != nil {
			return "", err
		}
		return idToken, nil
	}

	return customToken, nil
}
