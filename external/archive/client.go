package archive

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/platform/resilience"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout     = 5 * time.Second
	lookupPath         = "/registrations/lookup"
	maxResponseBytes   = 1 << 20
	referenceSourceTag = "archive"
)

var (
	errArchiveTransient = crerr.New("registration archive transient failure")
	ErrCircuitOpen      = crerr.New("registration archive circuit is open")
)

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client looks up last season's registrations in the archive service.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "league-auction-archive",
			MaxResponseBodySize: maxResponseBytes,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		logger:  logger,
		breaker: resilience.FromConfig("archive", cfg.CircuitBreaker, resilience.LogTransitions(logger)),
	}
}

func (c *Client) FindReference(ctx context.Context, email, phone string) (registration.Reference, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = registration.NormalizePhone(phone)
	if email == "" && phone == "" {
		return registration.Reference{}, false, nil
	}

	var body []byte
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx, email, phone)
		return err
	}, func(err error) bool { return crerr.Is(err, errArchiveTransient) })
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "archive circuit breaker rejected request", "state", c.breaker.State())
		return registration.Reference{}, false, ErrCircuitOpen
	}
	if err != nil {
		return registration.Reference{}, false, err
	}
	if body == nil {
		return registration.Reference{}, false, nil
	}

	var decoded lookupResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return registration.Reference{}, false, crerr.Wrap(err, "decode archive lookup response")
	}
	if !decoded.Found || decoded.Registration == nil {
		return registration.Reference{}, false, nil
	}
	return decoded.Registration.toReference(), true, nil
}

func (c *Client) get(ctx context.Context, email, phone string) ([]byte, error) {
	query := url.Values{}
	if email != "" {
		query.Set("email", email)
	}
	if phone != "" {
		query.Set("phone", phone)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + lookupPath + "?" + query.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, crerr.Wrap(context.DeadlineExceeded, "archive lookup")
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "send archive lookup"), errArchiveTransient)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusNotFound:
		return nil, nil
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		return nil, crerr.Mark(crerr.Newf("archive lookup status=%d", status), errArchiveTransient)
	case status != fasthttp.StatusOK:
		return nil, crerr.Newf("archive lookup status=%d body=%s", status, abbreviate(resp.Body()))
	}

	return append([]byte(nil), resp.Body()...), nil
}

type lookupResponse struct {
	Found        bool                  `json:"found"`
	Registration *archivedRegistration `json:"registration"`
}

type archivedRegistration struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DateOfBirth     string `json:"date_of_birth"`
	Gender          string `json:"gender"`
	ParentName      string `json:"parent_name"`
	ParentPhone     string `json:"parent_phone"`
	FlatNumber      string `json:"flat_number"`
	PlayerPosition  string `json:"player_position"`
	SkillLevel      string `json:"skill_level"`
	HeightCM        int    `json:"height_cm"`
	ProfileImageURL string `json:"profile_image_url"`
	JerseyName      string `json:"jersey_name"`
	JerseyNumber    int    `json:"jersey_number"`
	JerseySize      string `json:"jersey_size"`
}

func (r archivedRegistration) toReference() registration.Reference {
	return registration.Reference{
		FullName:        r.FullName,
		Email:           r.Email,
		Phone:           r.Phone,
		DateOfBirth:     r.DateOfBirth,
		Gender:          r.Gender,
		ParentName:      r.ParentName,
		ParentPhone:     r.ParentPhone,
		FlatNumber:      r.FlatNumber,
		PlayerPosition:  r.PlayerPosition,
		SkillLevel:      r.SkillLevel,
		HeightCM:        r.HeightCM,
		ProfileImageURL: r.ProfileImageURL,
		JerseyName:      r.JerseyName,
		JerseyNumber:    r.JerseyNumber,
		JerseySize:      r.JerseySize,
		Source:          referenceSourceTag,
	}
}

func abbreviate(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return fmt.Sprintf("%s...(%d bytes)", text[:limit], len(text))
}
