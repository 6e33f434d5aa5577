package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"boletapp-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore
// and Auth clients. Credentials are resolved in order: explicit service
// account file, base64-encoded service account JSON, then Application
// Default Credentials.
func InitFirebase(ctx context.Context, appConfig *config.Config) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}
	// Otherwise rely on ADC, the normal case on GCP runtimes.

	var fbConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}

	authCl, err := app.Auth(ctx)
	if err != nil {
		client.Close() // Best effort close; Init is considered failed.
		return fmt.Errorf("app.Auth: %w", err)
	}

	fsClient = client
	fbAuthClient = authCl
	return nil
}

// GetFirestoreClient returns the global Firestore client. It is nil until
// InitFirebase has succeeded.
func GetFirestoreClient() *firestore.Client {
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client. It is nil
// until InitFirebase has succeeded.
func GetFirebaseAuthClient() *auth.Client {
	return fbAuthClient
}
