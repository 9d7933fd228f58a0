package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"travelapi/internal/analytics"
	"travelapi/internal/apperror"
	"travelapi/internal/mail"
	"travelapi/internal/model"
	"travelapi/internal/repository"
	"travelapi/internal/schema"
	"travelapi/internal/security"
	"travelapi/internal/validator"
)

// GenericFailureMessage is the only detail a caller sees when signup fails unexpectedly.
const GenericFailureMessage = "Something went wrong. Please try again."

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit in bytes
	maxNameLen     = 50
)

var (
	emailRe    = regexp.MustCompile(schema.EmailPattern)
	phoneRe    = regexp.MustCompile(schema.PhoneNumberPattern)
	dialCodeRe = regexp.MustCompile(schema.DialCodePattern)
)

// SignupStatus is the terminal state of a signup attempt.
type SignupStatus string

const (
	SignupSuccess           SignupStatus = "success"
	SignupValidationFailure SignupStatus = "validation_failure"
	SignupDuplicateFailure  SignupStatus = "duplicate_failure"
	SignupGenericFailure    SignupStatus = "generic_failure"
)

// SignupResult reports how a signup attempt ended.
type SignupResult struct {
	Status  SignupStatus      `json:"status"`
	UserID  string            `json:"userId,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK reports whether the signup succeeded.
func (r SignupResult) OK() bool { return r.Status == SignupSuccess }

// Err converts a failed result into an *apperror.Error. It returns nil on success.
func (r SignupResult) Err() error {
	var kind apperror.Kind
	switch r.Status {
	case SignupSuccess:
		return nil
	case SignupValidationFailure:
		kind = apperror.KindValidationFailure
	case SignupDuplicateFailure:
		kind = apperror.KindDuplicateUser
	default:
		kind = apperror.KindGenericFailure
	}
	e := apperror.New(kind, r.Message)
	for field, msg := range r.Errors {
		e.WithField(field, msg)
	}
	return e
}

// SignupService runs the signup pipeline for a submitted form.
type SignupService interface {
	Signup(ctx context.Context, form map[string]string) SignupResult
}

// SignupDeps are the collaborators of the signup pipeline.
type SignupDeps struct {
	Documents repository.DocumentRepository
	Tx        repository.Transactor
	Validator *validator.Validator
	Hasher    security.Hasher
	Renderer  *mail.Renderer
	Mailer    mail.Dispatcher
	Analytics *analytics.Recorder
	Logger    *zap.Logger
}

type signupService struct {
	SignupDeps
}

// NewSignupService constructs a new SignupService.
func NewSignupService(deps SignupDeps) SignupService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &signupService{SignupDeps: deps}
}

// Signup validates the form, rejects known emails, then creates the user,
// its credentials account, the counter updates and the welcome email in one
// transaction. A failure after validation leaves nothing behind.
func (s *signupService) Signup(ctx context.Context, form map[string]string) SignupResult {
	ctx, span := tracer.Start(ctx, "SignupService.Signup")
	defer span.End()

	in, err := ValidateSignupFormData(form)
	if err != nil {
		span.SetAttributes(attribute.String("signup.status", string(SignupValidationFailure)))
		return validationFailure(err)
	}
	email := strings.ToLower(in.Email)

	exists, err := s.Documents.ExistsBy(ctx, schema.EntityUser, "email", email)
	if err != nil {
		return s.genericFailure(span, "duplicate_check", err)
	}
	if exists {
		span.SetAttributes(attribute.String("signup.status", string(SignupDuplicateFailure)))
		return duplicateFailure()
	}

	attempt := map[string]int64{analytics.Visitors: 1, analytics.SignupAttempts: 1}
	created := map[string]int64{analytics.Users: 1, analytics.Signups: 1}

	var userID string
	err = s.Tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := s.Analytics.Ensure(ctx, repos.Analytics); err != nil {
			return err
		}
		if err := s.Analytics.Increment(ctx, repos.Analytics, attempt); err != nil {
			return err
		}

		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return err
		}

		records := newRecordService(s.Validator, repos.Documents, s.Logger)
		user, err := records.CreateOne(ctx, schema.EntityUser, userRecord(in, email))
		if err != nil {
			return err
		}
		userID = user.ID

		_, err = records.CreateOne(ctx, schema.EntityAccount, model.Record{
			"userId":            user.ID,
			"type":              model.AccountTypeCredentials,
			"provider":          model.AccountProviderCredentials,
			"providerAccountId": user.ID,
			"password":          hash,
		})
		if err != nil {
			return err
		}

		if err := s.Analytics.Increment(ctx, repos.Analytics, created); err != nil {
			return err
		}

		msg, err := s.Renderer.Welcome(in.FirstName, in.LastName, email)
		if err != nil {
			return err
		}
		key, err := s.Mailer.Send(ctx, msg)
		if err != nil {
			return err
		}
		s.Logger.Info("welcome_email_queued", zap.String("user_id", user.ID), zap.String("object_key", key))
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			span.SetAttributes(attribute.String("signup.status", string(SignupDuplicateFailure)))
			return duplicateFailure()
		case apperror.KindOf(err) == apperror.KindFieldValidationFailed:
			span.SetAttributes(attribute.String("signup.status", string(SignupValidationFailure)))
			return validationFailure(err)
		default:
			return s.genericFailure(span, "create_account", err)
		}
	}

	s.Analytics.Observe(attempt, created)
	span.SetAttributes(attribute.String("signup.status", string(SignupSuccess)))
	return SignupResult{Status: SignupSuccess, UserID: userID}
}

func (s *signupService) genericFailure(span trace.Span, step string, err error) SignupResult {
	s.Logger.Error("signup_failed", zap.String("step", step), zap.Error(err))
	span.RecordError(err)
	span.SetAttributes(attribute.String("signup.status", string(SignupGenericFailure)))
	return SignupResult{Status: SignupGenericFailure, Message: GenericFailureMessage}
}

func userRecord(in model.SignupInput, email string) model.Record {
	rec := model.Record{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     email,
	}
	if !in.Phone.IsZero() {
		rec["phone"] = map[string]any{
			"number":   in.Phone.Number,
			"dialCode": in.Phone.DialCode,
		}
	}
	return rec
}

func validationFailure(err error) SignupResult {
	res := SignupResult{Status: SignupValidationFailure, Message: "Please correct the highlighted fields."}
	if e, ok := apperror.As(err); ok && len(e.Fields) > 0 {
		res.Errors = e.Fields
	}
	return res
}

func duplicateFailure() SignupResult {
	return SignupResult{
		Status:  SignupDuplicateFailure,
		Message: "An account with this email already exists.",
		Errors:  map[string]string{"email": "An account with this email already exists"},
	}
}

// ValidateSignupFormData checks a flat signup form and returns its values
// with the password still in plaintext. The phone field is a JSON string
// {"number":..,"dialCode":..}; an object with only empty values counts as
// no phone. On failure the error is a ValidationFailure mapping every
// failing field to a message.
func ValidateSignupFormData(form map[string]string) (model.SignupInput, error) {
	in := model.SignupInput{
		Email:           strings.TrimSpace(form["email"]),
		Password:        form["password"],
		ConfirmPassword: form["confirmPassword"],
		FirstName:       strings.TrimSpace(form["firstName"]),
		LastName:        strings.TrimSpace(form["lastName"]),
	}
	errs := make(map[string]string)

	switch {
	case in.Email == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(in.Email):
		errs["email"] = "Enter a valid email address"
	}

	switch {
	case in.Password == "":
		errs["password"] = "Password is required"
	case len(in.Password) < minPasswordLen:
		errs["password"] = "Password must be at least 8 characters"
	case len(in.Password) > maxPasswordLen:
		errs["password"] = "Password must be at most 72 characters"
	}

	switch {
	case in.ConfirmPassword == "":
		errs["confirmPassword"] = "Please confirm your password"
	case in.ConfirmPassword != in.Password:
		errs["confirmPassword"] = "Passwords do not match"
	}

	checkName(errs, "firstName", "First name", in.FirstName)
	checkName(errs, "lastName", "Last name", in.LastName)

	switch strings.ToLower(strings.TrimSpace(form["terms"])) {
	case "on", "true", "1", "yes":
		in.TermsAccepted = true
	default:
		errs["terms"] = "You must accept the terms and conditions"
	}

	phone, msg := parsePhone(form["phone"])
	if msg != "" {
		errs["phone"] = msg
	}
	in.Phone = phone

	if len(errs) > 0 {
		e := apperror.New(apperror.KindValidationFailure, "signup form is invalid")
		for field, m := range errs {
			e.WithField(field, m)
		}
		return in, e
	}
	return in, nil
}

func checkName(errs map[string]string, field, label, v string) {
	switch {
	case v == "":
		errs[field] = label + " is required"
	case utf8.RuneCountInString(v) > maxNameLen:
		errs[field] = label + " must be at most 50 characters"
	}
}

// parsePhone decodes the phone sub-field. It returns a nil phone with no
// message when the field is blank or every value in it is falsy.
func parsePhone(raw string) (*model.Phone, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, "Phone must be a JSON object"
	}
	number, okNumber := phoneText(fields["number"])
	dialCode, okDial := phoneText(fields["dialCode"])
	if !okNumber || !okDial {
		return nil, "Phone number and dial code must be text"
	}

	p := &model.Phone{Number: number, DialCode: dialCode}
	switch {
	case p.IsZero():
		return nil, ""
	case number == "" || dialCode == "":
		return nil, "Phone number and dial code must both be provided"
	case !phoneRe.MatchString(number):
		return nil, "Enter a valid phone number"
	case !dialCodeRe.MatchString(dialCode):
		return nil, "Enter a valid dial code"
	}
	return p, ""
}

// phoneText accepts strings and JSON falsy values (null, false, 0, "").
func phoneText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case bool:
		return "", !t
	case float64:
		return "", t == 0
	default:
		return "", false
	}
}
