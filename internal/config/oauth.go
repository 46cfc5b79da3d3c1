package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// GoogleCredentials is the OAuth client file downloaded from the Google
// Cloud console, used for the Gmail swap-notification integration.
type GoogleCredentials struct {
	Installed struct {
		ClientID     string   `json:"client_id" validate:"required"`
		ProjectID    string   `json:"project_id" validate:"required"`
		AuthURI      string   `json:"auth_uri" validate:"required,url"`
		TokenURI     string   `json:"token_uri" validate:"required,url"`
		ClientSecret string   `json:"client_secret" validate:"required"`
		RedirectURIs []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
	} `json:"installed" validate:"required"`
}

// LoadGoogleCredentials reads and validates the OAuth client file. The file
// is looked up as "googleCredentials.<env>.json" in the working directory
// first, then in the user's home directory.
func LoadGoogleCredentials(env string) (*GoogleCredentials, error) {
	name := "googleCredentials.json"
	if env != "" {
		name = "googleCredentials." + env + ".json"
	}

	path, err := resolveCredentialsPath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials file: %w", err)
	}

	var creds GoogleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse google credentials file: %w", err)
	}

	if err := validate.Struct(&creds); err != nil {
		return nil, fmt.Errorf("google credentials validation failed: %w", err)
	}

	return &creds, nil
}

func resolveCredentialsPath(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(home, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("google credentials file %q not found in current or home directory", name)
}
