package pinpoint

import (
	"context"
	"fmt"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
)

// CreateImportJob submits a CSV import. DefineSegment and RegisterEndpoints
// are always on: the import both materialises a segment and registers the
// rows as endpoints.
func (c *Client) CreateImportJob(ctx context.Context, appID string, req ports.ImportRequest) (domain.ImportJob, error) {
	jobReq := &types.ImportJobRequest{
		DefineSegment:     aws.Bool(true),
		Format:            types.FormatCsv,
		RegisterEndpoints: aws.Bool(true),
		RoleArn:           aws.String(req.RoleArn),
		S3Url:             aws.String(req.S3URL),
	}
	if req.SegmentID != "" {
		jobReq.SegmentId = aws.String(req.SegmentID)
	} else {
		jobReq.SegmentName = aws.String(req.SegmentName)
	}

	out, err := c.pp.CreateImportJob(ctx, &pinpoint.CreateImportJobInput{
		ApplicationId:    aws.String(appID),
		ImportJobRequest: jobReq,
	})
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("create import job: %w", err)
	}
	return importJobFromResponse(out.ImportJobResponse), nil
}

// GetImportJob re-fetches a job's current state.
func (c *Client) GetImportJob(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
	out, err := c.pp.GetImportJob(ctx, &pinpoint.GetImportJobInput{
		ApplicationId: aws.String(appID),
		JobId:         aws.String(jobID),
	})
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("get import job %s: %w", jobID, err)
	}
	return importJobFromResponse(out.ImportJobResponse), nil
}

func importJobFromResponse(r *types.ImportJobResponse) domain.ImportJob {
	job := domain.ImportJob{
		ID:            aws.ToString(r.Id),
		ApplicationID: aws.ToString(r.ApplicationId),
		Status:        domain.JobStatus(r.JobStatus),
	}
	if r.Definition != nil {
		job.SegmentID = aws.ToString(r.Definition.SegmentId)
		job.CreatesSegment = r.Definition.SegmentName != nil
	}
	return job
}

// GetSegments lists the application's segments.
func (c *Client) GetSegments(ctx context.Context, appID string) ([]domain.Segment, error) {
	out, err := c.pp.GetSegments(ctx, &pinpoint.GetSegmentsInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return nil, fmt.Errorf("get segments: %w", err)
	}

	segments := make([]domain.Segment, 0, len(out.SegmentsResponse.Item))
	for _, item := range out.SegmentsResponse.Item {
		segments = append(segments, domain.Segment{
			ID:   aws.ToString(item.Id),
			Name: aws.ToString(item.Name),
		})
	}
	return segments, nil
}

// CreateSegment creates a dynamic segment filtering the source segment by
// channel type.
func (c *Client) CreateSegment(ctx context.Context, appID string, req ports.SegmentRequest) (domain.Segment, error) {
	dims := types.SegmentDimensions{
		Demographic: &types.SegmentDemographics{
			Channel: &types.SetDimension{
				DimensionType: types.DimensionTypeInclusive,
				Values:        []string{string(req.Channel)},
			},
		},
	}

	out, err := c.pp.CreateSegment(ctx, &pinpoint.CreateSegmentInput{
		ApplicationId: aws.String(appID),
		WriteSegmentRequest: &types.WriteSegmentRequest{
			Name:       aws.String(req.Name),
			Dimensions: &dims,
			SegmentGroups: &types.SegmentGroupList{
				Include: types.IncludeAll,
				Groups: []types.SegmentGroup{{
					Dimensions: []types.SegmentDimensions{dims},
					SourceSegments: []types.SegmentReference{{
						Id: aws.String(req.SourceSegmentID),
					}},
					SourceType: types.SourceTypeAll,
					Type:       types.TypeAll,
				}},
			},
		},
	})
	if err != nil {
		return domain.Segment{}, fmt.Errorf("create segment %q: %w", req.Name, err)
	}

	return domain.Segment{
		ID:   aws.ToString(out.SegmentResponse.Id),
		Name: aws.ToString(out.SegmentResponse.Name),
	}, nil
}
