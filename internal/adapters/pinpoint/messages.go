package pinpoint

import (
	"context"
	"fmt"
	"strconv"

	"pinpoint-provisioner/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
)

// SendEmail sends one transactional email and returns the remote message
// id for the recipient.
func (c *Client) SendEmail(ctx context.Context, appID string, msg domain.TransactionalEmail) (string, error) {
	out, err := c.pp.SendMessages(ctx, &pinpoint.SendMessagesInput{
		ApplicationId: aws.String(appID),
		MessageRequest: &types.MessageRequest{
			Addresses: map[string]types.AddressConfiguration{
				msg.To: {ChannelType: types.ChannelTypeEmail},
			},
			MessageConfiguration: &types.DirectMessageConfiguration{
				EmailMessage: &types.EmailMessage{
					FromAddress: aws.String(msg.Sender),
					SimpleEmail: &types.SimpleEmail{
						Subject:  simplePart(msg.Subject, msg.Charset),
						HtmlPart: simplePart(msg.HTMLBody, msg.Charset),
						TextPart: simplePart(msg.TextBody, msg.Charset),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	return resultMessageID(out.MessageResponse, msg.To)
}

// SendSMS sends one transactional SMS and returns the remote message id
// for the recipient.
func (c *Client) SendSMS(ctx context.Context, appID string, msg domain.TransactionalSMS) (string, error) {
	out, err := c.pp.SendMessages(ctx, &pinpoint.SendMessagesInput{
		ApplicationId: aws.String(appID),
		MessageRequest: &types.MessageRequest{
			Addresses: map[string]types.AddressConfiguration{
				msg.To: {ChannelType: types.ChannelTypeSms},
			},
			MessageConfiguration: &types.DirectMessageConfiguration{
				SMSMessage: &types.SMSMessage{
					Body:              aws.String(msg.Body),
					Keyword:           aws.String(msg.Keyword),
					MessageType:       types.MessageType(msg.MessageType),
					OriginationNumber: aws.String(msg.OriginationNumber),
					SenderId:          aws.String(msg.SenderID),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}
	return resultMessageID(out.MessageResponse, msg.To)
}

func simplePart(data, charset string) *types.SimpleEmailPart {
	return &types.SimpleEmailPart{
		Charset: aws.String(charset),
		Data:    aws.String(data),
	}
}

func resultMessageID(resp *types.MessageResponse, address string) (string, error) {
	result, ok := resp.Result[address]
	if !ok {
		return "", fmt.Errorf("no delivery result for %s", address)
	}
	return aws.ToString(result.MessageId), nil
}

// GetKPIRows fetches the date-range KPI rows for one KPI name. Each row is
// flattened to its first grouping key and first value.
func (c *Client) GetKPIRows(ctx context.Context, appID, kpiName string) ([]domain.KPIRow, error) {
	out, err := c.pp.GetApplicationDateRangeKpi(ctx, &pinpoint.GetApplicationDateRangeKpiInput{
		ApplicationId: aws.String(appID),
		KpiName:       aws.String(kpiName),
	})
	if err != nil {
		return nil, fmt.Errorf("get kpi %s: %w", kpiName, err)
	}

	result := out.ApplicationDateRangeKpiResponse.KpiResult
	if result == nil {
		return nil, nil
	}

	rows := make([]domain.KPIRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		var parsed domain.KPIRow
		if len(row.GroupedBys) > 0 {
			parsed.GroupedBy = aws.ToString(row.GroupedBys[0].Value)
		}
		if len(row.Values) > 0 {
			v, err := strconv.ParseFloat(aws.ToString(row.Values[0].Value), 64)
			if err != nil {
				return nil, fmt.Errorf("parse kpi %s value %q: %w", kpiName, aws.ToString(row.Values[0].Value), err)
			}
			parsed.Value = v
		}
		rows = append(rows, parsed)
	}
	return rows, nil
}
