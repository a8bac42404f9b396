package waitlist

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/constants"
	apperrors "github.com/launchline/go-waitlist-kit/pkg/errors"
	"github.com/launchline/go-waitlist-kit/pkg/ratelimit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/launchline/go-waitlist-kit/domain/waitlist"

type WaitlistService interface {
	// Join records a signup. Repeating an email that is already on the
	// list is a successful, idempotent outcome reported through
	// AlreadyRegistered rather than an error.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error)

	// Exists reports whether an email is already on the list.
	Exists(ctx context.Context, email string) bool

	// Count returns the number of signups currently held.
	Count(ctx context.Context) int

	// Entries returns all signups, newest first.
	Entries(ctx context.Context) []WaitlistEntryResponse
}

type ServiceConfig struct {
	// Store holds the signup collection. Required.
	Store   WaitlistStore
	Logger  *log.Logger
	Metrics *Metrics
	// Throttle limits signup attempts per normalized email. Nil installs
	// the default in-memory limiter; disable by configuring a permissive
	// limiter explicitly.
	Throttle  ratelimit.RateLimiter
	Validator *validator.Validate
	Tracer    trace.Tracer
}

type waitlistService struct {
	logger   *log.Logger
	store    WaitlistStore
	metrics  *Metrics
	throttle ratelimit.RateLimiter
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewWaitlistService(logger *log.Logger, store WaitlistStore) WaitlistService {
	return NewWaitlistServiceWithConfig(&ServiceConfig{Logger: logger, Store: store})
}

func NewWaitlistServiceWithConfig(config *ServiceConfig) WaitlistService {
	if config == nil {
		config = &ServiceConfig{}
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}

	throttle := config.Throttle
	if throttle == nil {
		throttle = ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
			Requests: constants.DefaultJoinThrottleRequests,
			Window:   constants.DefaultJoinThrottleWindow(),
			Logger:   logger,
		})
	}

	validate := config.Validator
	if validate == nil {
		validate = validator.New()
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &waitlistService{
		logger:   logger,
		store:    config.Store,
		metrics:  config.Metrics,
		throttle: throttle,
		validate: validate,
		tracer:   tracer,
	}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	ctx, span := s.tracer.Start(ctx, "waitlist.join")
	defer span.End()

	if req == nil {
		logger.Error("Join received empty request")
		s.metrics.RecordValidationFailure()
		return nil, apperrors.NewValidationError("request cannot be nil", nil)
	}

	signup := req.sanitized()

	limited, err := s.throttle.IsLimited(ctx, NormalizeEmail(signup.Email))
	if err != nil {
		logger.Error("Failed to evaluate signup throttle", "error", err.Error())
		span.RecordError(err)
		return nil, apperrors.NewInternalError("unable to evaluate signup throttle", err)
	}
	if limited {
		logger.Warn("Signup throttled")
		s.metrics.RecordThrottled()
		span.SetAttributes(attribute.Bool("waitlist.throttled", true))
		return nil, apperrors.NewTooManyRequestsError("too many signup attempts for this address", nil)
	}

	if err := s.validateSignup(&signup); err != nil {
		logger.Error("Join rejected invalid signup", "error", err.Error())
		s.metrics.RecordValidationFailure()
		span.SetAttributes(attribute.Bool("waitlist.invalid", true))
		return nil, err
	}

	entry, inserted, err := s.store.AddIfAbsent(ctx, ToSignupFields(&signup))
	if err != nil {
		logger.Error("Failed to record signup", "error", err.Error())
		span.RecordError(err)
		return nil, err
	}

	total := s.store.Count()
	span.SetAttributes(
		attribute.Bool("waitlist.already_registered", !inserted),
		attribute.Int("waitlist.total_signups", total),
	)

	if inserted {
		s.metrics.RecordSignup()
		logger.Info("Waitlist signup recorded", "total", total)
	} else {
		s.metrics.RecordDuplicate()
		logger.Info("Signup repeated an email already on the list", "total", total)
	}

	return &JoinWaitlistResponse{
		Entry:             ToWaitlistEntryResponse(entry),
		AlreadyRegistered: !inserted,
		TotalSignups:      total,
	}, nil
}

func (s *waitlistService) Exists(ctx context.Context, email string) bool {
	return s.store.Exists(email)
}

func (s *waitlistService) Count(ctx context.Context) int {
	return s.store.Count()
}

func (s *waitlistService) Entries(ctx context.Context) []WaitlistEntryResponse {
	return ToWaitlistEntryResponses(s.store.Entries())
}

func (s *waitlistService) validateSignup(signup *JoinWaitlistRequest) error {
	if err := s.validate.Struct(signup); err != nil {
		fields := apperrors.FormatValidationErrors(err, signup)
		if len(fields) > 0 {
			return apperrors.NewValidationError(apperrors.JoinValidationMessages(fields), err)
		}
		return apperrors.NewValidationError("invalid signup request", err)
	}

	// The email tag accepts dotless domains like user@localhost, which a
	// public signup form should not.
	if !hasDottedDomain(signup.Email) {
		return apperrors.NewValidationError("email: must be a valid email address", nil)
	}
	return nil
}

func hasDottedDomain(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
