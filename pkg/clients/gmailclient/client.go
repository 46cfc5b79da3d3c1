package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/volunteerhq/rosterd/internal/config"
	"github.com/volunteerhq/rosterd/pkg/utils"
)

// Client wraps the Gmail API client used for volunteer notifications
type Client struct {
	service      *gmail.Service
	sender       string
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a new Gmail client, running the OAuth flow if no
// token is cached yet
func NewClient(ctx context.Context, creds *config.GoogleCredentials, sender string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	return newClientWithToken(ctx, oauthConfig, token, sender)
}

// NewClientWithToken creates a new Gmail client using an existing OAuth token
func NewClientWithToken(ctx context.Context, creds *config.GoogleCredentials, token *oauth2.Token, sender string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	return newClientWithToken(ctx, oauthConfig, token, sender)
}

func newClientWithToken(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, sender string) (*Client, error) {
	httpClient := oauthConfig.Client(ctx, token)

	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service: service,
		sender:  sender,
	}, nil
}
