// Package pinpoint implements the messaging ports against the Amazon
// Pinpoint API.
package pinpoint

import (
	"context"
	"fmt"
	"strings"

	"pinpoint-provisioner/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
)

// Client implements ports.MessagingAPI using the AWS SDK.
type Client struct {
	pp *pinpoint.Client
}

// New creates a Client from an AWS configuration.
func New(cfg aws.Config) *Client {
	return &Client{pp: pinpoint.NewFromConfig(cfg)}
}

// CreateApp creates a new application and returns its id.
func (c *Client) CreateApp(ctx context.Context, name string) (string, error) {
	out, err := c.pp.CreateApp(ctx, &pinpoint.CreateAppInput{
		CreateApplicationRequest: &types.CreateApplicationRequest{
			Name: aws.String(name),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create app: %w", err)
	}
	return aws.ToString(out.ApplicationResponse.Id), nil
}

// DeleteApp deletes one application.
func (c *Client) DeleteApp(ctx context.Context, appID string) error {
	_, err := c.pp.DeleteApp(ctx, &pinpoint.DeleteAppInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return fmt.Errorf("delete app %s: %w", appID, err)
	}
	return nil
}

// ListAppIDs returns the ids of every application on the account.
func (c *Client) ListAppIDs(ctx context.Context) ([]string, error) {
	out, err := c.pp.GetApps(ctx, &pinpoint.GetAppsInput{})
	if err != nil {
		return nil, fmt.Errorf("get apps: %w", err)
	}

	ids := make([]string, 0, len(out.ApplicationsResponse.Item))
	for _, item := range out.ApplicationsResponse.Item {
		ids = append(ids, aws.ToString(item.Id))
	}
	return ids, nil
}

// GetChannels returns the channel types present on an application.
func (c *Client) GetChannels(ctx context.Context, appID string) ([]domain.ChannelType, error) {
	out, err := c.pp.GetChannels(ctx, &pinpoint.GetChannelsInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}

	channels := make([]domain.ChannelType, 0, len(out.ChannelsResponse.Channels))
	for name := range out.ChannelsResponse.Channels {
		channels = append(channels, domain.ChannelType(strings.ToUpper(name)))
	}
	return channels, nil
}
