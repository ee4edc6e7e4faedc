package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	idgen "github.com/riskibarqy/league-auction/internal/platform/id"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultSubmitTimeout  = 30 * time.Second
	defaultMaxImageBytes  = 5 << 20
	defaultImageKeyPrefix = "registrations/profile-images/"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type RegistrationServiceConfig struct {
	Payees         []string
	SubmitTimeout  time.Duration
	MaxImageBytes  int64
	ImageKeyPrefix string
}

type SubmitRegistrationResult struct {
	Registration registration.Registration
	Summary      []registration.SectionSummary
	SummaryText  string
}

// DraftValidation is the state of a form that has not been submitted yet.
type DraftValidation struct {
	Form      registration.Form
	Errors    registration.FieldErrors
	Sections  map[registration.Section]bool
	CanSubmit bool
}

type LookupReferenceInput struct {
	TournamentID string
	Email        string
	Phone        string
	Form         registration.Form
}

type LookupReferenceResult struct {
	Found     bool
	Reference registration.Reference
	Form      registration.Form
	Merged    []registration.Field
	Errors    registration.FieldErrors
}

type UploadImageInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type RegistrationService struct {
	tournamentRepo   tournament.Repository
	registrationRepo registration.Repository
	idGen            idgen.Generator
	images           ImageStore
	receipts         ReceiptRenderer
	archive          ReferenceLookup
	cfg              RegistrationServiceConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewRegistrationService(
	tournamentRepo tournament.Repository,
	registrationRepo registration.Repository,
	idGen idgen.Generator,
	images ImageStore,
	receipts ReceiptRenderer,
	archive ReferenceLookup,
	cfg RegistrationServiceConfig,
	logger *logging.Logger,
) *RegistrationService {
	if logger == nil {
		logger = logging.Default()
	}
	if images == nil {
		images = noopImageStore{}
	}
	if archive == nil {
		archive = noopReferenceLookup{}
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if strings.TrimSpace(cfg.ImageKeyPrefix) == "" {
		cfg.ImageKeyPrefix = defaultImageKeyPrefix
	}

	return &RegistrationService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		idGen:            idGen,
		images:           images,
		receipts:         receipts,
		archive:          archive,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

// Submit re-validates the whole form and persists it once.
func (s *RegistrationService) Submit(ctx context.Context, tournamentID string, form registration.Form) (SubmitRegistrationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Submit")
	defer span.End()

	item, policy, err := s.policyFor(ctx, tournamentID)
	if err != nil {
		return SubmitRegistrationResult{}, err
	}

	form, err = policy.Check(form)
	if err != nil {
		return SubmitRegistrationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !item.HasCategory(form.SportCategory) {
		return SubmitRegistrationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, &registration.ValidationError{
			Fields: registration.FieldErrors{
				registration.FieldSportCategory: "This category is not open for the tournament",
			},
		})
	}

	registrationID, err := s.idGen.NewID()
	if err != nil {
		return SubmitRegistrationResult{}, fmt.Errorf("generate registration id: %w", err)
	}
	stored := registration.Registration{
		ID:           registrationID,
		TournamentID: item.ID,
		Form:         form,
		CreatedAt:    s.now().UTC(),
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.cfg.SubmitTimeout)
	defer cancel()

	if err := s.registrationRepo.Create(submitCtx, stored); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(submitCtx.Err(), context.DeadlineExceeded) {
			return SubmitRegistrationResult{}, fmt.Errorf("%w: registration submit after %s", ErrTimeout, s.cfg.SubmitTimeout)
		}
		return SubmitRegistrationResult{}, fmt.Errorf("create registration: %w", err)
	}

	summary := registration.Summarize(form)
	s.logger.InfoContext(ctx, "registration submitted",
		"tournament_id", item.ID,
		"registration_id", stored.ID,
		"sport_category", string(form.SportCategory),
	)

	return SubmitRegistrationResult{
		Registration: stored,
		Summary:      summary,
		SummaryText:  SummaryText(summary),
	}, nil
}

// Validate reports per-field errors and section completion for a draft.
func (s *RegistrationService) Validate(ctx context.Context, tournamentID string, form registration.Form) (DraftValidation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Validate")
	defer span.End()

	_, policy, err := s.policyFor(ctx, tournamentID)
	if err != nil {
		return DraftValidation{}, err
	}

	form = form.Normalize()
	errs := policy.ValidateAll(form)
	sections := make(map[registration.Section]bool, len(registration.Sections))
	for _, section := range registration.Sections {
		sections[section] = policy.SectionComplete(section, form, errs)
	}

	return DraftValidation{
		Form:      form,
		Errors:    errs,
		Sections:  sections,
		CanSubmit: policy.CanSubmit(form),
	}, nil
}

// LookupReference finds a prior registration by email or phone and merges it
// into the draft. Merged fields are re-validated against this tournament.
func (s *RegistrationService) LookupReference(ctx context.Context, input LookupReferenceInput) (LookupReferenceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.LookupReference")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := registration.NormalizePhone(input.Phone)
	if email == "" && phone == "" {
		return LookupReferenceResult{}, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}

	_, policy, err := s.policyFor(ctx, input.TournamentID)
	if err != nil {
		return LookupReferenceResult{}, err
	}

	ref, found, err := s.findReference(ctx, email, phone)
	if err != nil {
		return LookupReferenceResult{}, err
	}
	if !found {
		return LookupReferenceResult{Form: input.Form}, nil
	}

	merged, fields := registration.Merge(input.Form.Normalize(), ref)
	return LookupReferenceResult{
		Found:     true,
		Reference: ref,
		Form:      merged,
		Merged:    fields,
		Errors:    policy.RevalidateMerged(merged, fields),
	}, nil
}

// UploadImage stores a profile photo and returns its URL.
func (s *RegistrationService) UploadImage(ctx context.Context, input UploadImageInput) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.UploadImage")
	defer span.End()

	if input.Body == nil {
		return "", fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	if input.Size > s.cfg.MaxImageBytes {
		return "", fmt.Errorf("%w: image must be at most %d bytes", ErrInvalidInput, s.cfg.MaxImageBytes)
	}

	payload, err := io.ReadAll(io.LimitReader(input.Body, s.cfg.MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	if int64(len(payload)) > s.cfg.MaxImageBytes {
		return "", fmt.Errorf("%w: image must be at most %d bytes", ErrInvalidInput, s.cfg.MaxImageBytes)
	}

	contentType := http.DetectContentType(payload)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %s", ErrInvalidInput, contentType)
	}

	objectID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate image id: %w", err)
	}
	key := s.cfg.ImageKeyPrefix + objectID + ext

	url, err := s.images.Put(ctx, key, contentType, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: store image: %v", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "profile image uploaded", "key", key, "size", len(payload), "content_type", contentType)
	return url, nil
}

func (s *RegistrationService) Get(ctx context.Context, registrationID string) (registration.Registration, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Get")
	defer span.End()

	registrationID = strings.TrimSpace(registrationID)
	if registrationID == "" {
		return registration.Registration{}, fmt.Errorf("%w: registration id is required", ErrInvalidInput)
	}

	item, exists, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return registration.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	if !exists {
		return registration.Registration{}, fmt.Errorf("%w: registration=%s", ErrNotFound, registrationID)
	}
	return item, nil
}

// Receipt renders the stored registration as a printable document.
func (s *RegistrationService) Receipt(ctx context.Context, registrationID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Receipt")
	defer span.End()

	if s.receipts == nil {
		return nil, fmt.Errorf("%w: receipt renderer is not configured", ErrDependencyUnavailable)
	}

	item, err := s.Get(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	out, err := s.receipts.Render(ctx, item, registration.Summarize(item.Form))
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return out, nil
}

func (s *RegistrationService) policyFor(ctx context.Context, tournamentID string) (tournament.Tournament, registration.Policy, error) {
	item, err := loadTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return tournament.Tournament{}, registration.Policy{}, err
	}
	return item, registration.NewPolicy(item.EffectiveReferenceDate(), s.cfg.Payees), nil
}

func (s *RegistrationService) findReference(ctx context.Context, email, phone string) (registration.Reference, bool, error) {
	item, exists, err := s.registrationRepo.FindLatestByContact(ctx, email, phone)
	if err != nil {
		return registration.Reference{}, false, fmt.Errorf("find registration by contact: %w", err)
	}
	if exists {
		return registration.ReferenceFromRegistration(item), true, nil
	}

	ref, found, err := s.archive.FindReference(ctx, email, phone)
	if err != nil {
		s.logger.WarnContext(ctx, "registration archive lookup failed", "error", err)
		return registration.Reference{}, false, fmt.Errorf("%w: registration archive: %v", ErrDependencyUnavailable, err)
	}
	return ref, found, nil
}

// SummaryText renders section summaries as plain text, one section per block.
func SummaryText(sections []registration.SectionSummary) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for idx, section := range sections {
		if idx > 0 {
			_, _ = buf.WriteString("\n")
		}
		_, _ = buf.WriteString(section.Title)
		_, _ = buf.WriteString("\n")
		for _, line := range section.Lines {
			_, _ = buf.WriteString("  ")
			_, _ = buf.WriteString(line.Label)
			_, _ = buf.WriteString(": ")
			_, _ = buf.WriteString(line.Value)
			_, _ = buf.WriteString("\n")
		}
	}

	return buf.String()
}
