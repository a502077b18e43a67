package firebase

import (
	"context"

	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// NewApp initialises the Firebase app from inline service-account JSON when
// given, else from a credentials file, else from application default
// credentials.
func NewApp(ctx context.Context, projectID, credentialsJSON, credentialsPath string) (*fbapp.App, []option.ClientOption, error) {
	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return app, opts, nil
}

// VerifyToken checks a Firebase ID token and returns the caller's uid.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
