package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"

	"github.com/google/uuid"
)

// fakeAPI implements ports.MessagingAPI with per-method hooks. Methods
// without a hook return zero values.
type fakeAPI struct {
	createImportJobFn func(ctx context.Context, appID string, req ports.ImportRequest) (domain.ImportJob, error)
	getImportJobFn    func(ctx context.Context, appID, jobID string) (domain.ImportJob, error)
	getSegmentsFn     func(ctx context.Context, appID string) ([]domain.Segment, error)
	createSegmentFn   func(ctx context.Context, appID string, req ports.SegmentRequest) (domain.Segment, error)
	createCampaignFn  func(ctx context.Context, appID string, spec domain.CampaignSpec) (string, error)
	getKPIRowsFn      func(ctx context.Context, appID, kpiName string) ([]domain.KPIRow, error)
	campaignNames     map[string]string

	importRequests  []ports.ImportRequest
	segmentRequests []ports.SegmentRequest
	createdApps     []string
	deletedApps     []string
	emailUpdates    []domain.EmailChannelConfig
	smsUpdates      []domain.SMSChannelConfig
	sentEmails      []domain.TransactionalEmail
	sentSMS         []domain.TransactionalSMS
}

func (f *fakeAPI) CreateImportJob(ctx context.Context, appID string, req ports.ImportRequest) (domain.ImportJob, error) {
	f.importRequests = append(f.importRequests, req)
	if f.createImportJobFn != nil {
		return f.createImportJobFn(ctx, appID, req)
	}
	return domain.ImportJob{ID: "job-1", ApplicationID: appID, Status: domain.JobStatusPending}, nil
}

func (f *fakeAPI) GetImportJob(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
	if f.getImportJobFn != nil {
		return f.getImportJobFn(ctx, appID, jobID)
	}
	// Completed with the segment id on the job definition, the common
	// remote behaviour.
	return domain.ImportJob{ID: jobID, ApplicationID: appID, Status: domain.JobStatusCompleted, SegmentID: "seg-1"}, nil
}

func (f *fakeAPI) GetSegments(ctx context.Context, appID string) ([]domain.Segment, error) {
	if f.getSegmentsFn != nil {
		return f.getSegmentsFn(ctx, appID)
	}
	return nil, nil
}

func (f *fakeAPI) CreateSegment(ctx context.Context, appID string, req ports.SegmentRequest) (domain.Segment, error) {
	f.segmentRequests = append(f.segmentRequests, req)
	if f.createSegmentFn != nil {
		return f.createSegmentFn(ctx, appID, req)
	}
	return domain.Segment{ID: "seg-" + string(req.Channel), Name: req.Name}, nil
}

func (f *fakeAPI) CreateCampaign(ctx context.Context, appID string, spec domain.CampaignSpec) (string, error) {
	if f.createCampaignFn != nil {
		return f.createCampaignFn(ctx, appID, spec)
	}
	return "campaign-1", nil
}

func (f *fakeAPI) GetCampaignName(ctx context.Context, appID, campaignID string) (string, error) {
	if name, ok := f.campaignNames[campaignID]; ok {
		return name, nil
	}
	return campaignID, nil
}

func (f *fakeAPI) CreateApp(ctx context.Context, name string) (string, error) {
	f.createdApps = append(f.createdApps, name)
	return "app-1", nil
}

func (f *fakeAPI) DeleteApp(ctx context.Context, appID string) error {
	f.deletedApps = append(f.deletedApps, appID)
	return nil
}

func (f *fakeAPI) ListAppIDs(ctx context.Context) ([]string, error) {
	return []string{"app-1", "app-2"}, nil
}

func (f *fakeAPI) GetChannels(ctx context.Context, appID string) ([]domain.ChannelType, error) {
	return nil, nil
}

func (f *fakeAPI) UpdateEmailChannel(ctx context.Context, appID string, cfg domain.EmailChannelConfig) error {
	f.emailUpdates = append(f.emailUpdates, cfg)
	return nil
}

func (f *fakeAPI) UpdateSMSChannel(ctx context.Context, appID string, cfg domain.SMSChannelConfig) error {
	f.smsUpdates = append(f.smsUpdates, cfg)
	return nil
}

func (f *fakeAPI) DeleteEmailChannel(ctx context.Context, appID string) error { return nil }
func (f *fakeAPI) DeleteSMSChannel(ctx context.Context, appID string) error   { return nil }

func (f *fakeAPI) GetEmailChannel(ctx context.Context, appID string) (domain.ChannelDetails, error) {
	return domain.ChannelDetails{Type: domain.ChannelEmail, Enabled: true}, nil
}

func (f *fakeAPI) GetSMSChannel(ctx context.Context, appID string) (domain.ChannelDetails, error) {
	return domain.ChannelDetails{Type: domain.ChannelSMS, Enabled: true}, nil
}

func (f *fakeAPI) CreateEmailTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	return nil
}

func (f *fakeAPI) CreateSMSTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	return nil
}

func (f *fakeAPI) ListTemplateVersions(ctx context.Context, name string, typ domain.ChannelType) ([]domain.TemplateVersion, error) {
	return nil, nil
}

func (f *fakeAPI) SendEmail(ctx context.Context, appID string, msg domain.TransactionalEmail) (string, error) {
	f.sentEmails = append(f.sentEmails, msg)
	return "msg-email-1", nil
}

func (f *fakeAPI) SendSMS(ctx context.Context, appID string, msg domain.TransactionalSMS) (string, error) {
	f.sentSMS = append(f.sentSMS, msg)
	return "msg-sms-1", nil
}

func (f *fakeAPI) GetKPIRows(ctx context.Context, appID, kpiName string) ([]domain.KPIRow, error) {
	if f.getKPIRowsFn != nil {
		return f.getKPIRowsFn(ctx, appID, kpiName)
	}
	return nil, nil
}

// fakeStore is an in-memory ports.ObjectStore.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Bucket() string { return "test-bucket" }

func (s *fakeStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return data, nil
}

func (s *fakeStore) PutObject(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeStore) UploadFile(ctx context.Context, localPath, key string) error { return nil }

func (s *fakeStore) DownloadFile(ctx context.Context, key, localPath string) error { return nil }

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// fakeRepo is an in-memory ports.RunRepository.
type fakeRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]domain.ProvisioningRun

	// statusLog records every transition in order, e.g. "running".
	statusLog []domain.RunStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{runs: map[uuid.UUID]domain.ProvisioningRun{}}
}

func (r *fakeRepo) SaveRun(ctx context.Context, run domain.ProvisioningRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *fakeRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ProvisioningRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (r *fakeRepo) ClaimPendingRuns(ctx context.Context, limit int) ([]domain.ProvisioningRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []domain.ProvisioningRun
	for id, run := range r.runs {
		if run.Status != domain.RunStatusPending || len(claimed) >= limit {
			continue
		}
		run.Status = domain.RunStatusQueued
		r.runs[id] = run
		r.statusLog = append(r.statusLog, domain.RunStatusQueued)
		claimed = append(claimed, run)
	}
	return claimed, nil
}

func (r *fakeRepo) UpdateRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return domain.ErrRunNotFound
	}
	run.Status = status
	run.LastError = lastError
	r.runs[id] = run
	r.statusLog = append(r.statusLog, status)
	return nil
}

func (r *fakeRepo) SetRunResources(ctx context.Context, id uuid.UUID, resources domain.SegmentResources) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return domain.ErrRunNotFound
	}
	run.Resources = resources
	r.runs[id] = run
	return nil
}

// fakePublisher records published runs and can be told to fail.
type fakePublisher struct {
	published []domain.ProvisioningRun
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, run domain.ProvisioningRun) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, run)
	return nil
}

// newTestProvisioner wires a Provisioner over the fakes with an instant
// sleep that records the requested durations.
func newTestProvisioner(api *fakeAPI, store *fakeStore, repo *fakeRepo, pub *fakePublisher, opts Options) (*Provisioner, *[]time.Duration) {
	if store == nil {
		store = newFakeStore()
	}
	if repo == nil {
		repo = newFakeRepo()
	}
	if pub == nil {
		pub = &fakePublisher{}
	}
	if opts.RoleArn == "" {
		opts.RoleArn = "arn:aws:iam::123456789012:role/import"
	}

	p := NewProvisioner(api, store, repo, pub, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var sleeps []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return p, &sleeps
}
