package wizard

import (
	"context"
	"errors"
	"sync"

	"poolchill/api"
	"poolchill/models"
	"poolchill/services/session"
	"poolchill/services/storage"
	"poolchill/services/verification"
	"poolchill/utils"

	"go.uber.org/zap"
)

// Config carries the controller's tunable gates.
type Config struct {
	// MinListingPhotos gates Photos -> Preview. Zero allows photo-less
	// listings through, matching the historical behaviour.
	MinListingPhotos int
	// PhoneCountryPrefix is prepended to the normalized 10-digit phone when
	// registering (E.164).
	PhoneCountryPrefix string
}

// Controller owns the onboarding state machine: the current step, the mutable
// form draft, branch flags and every transition side effect. All mutation goes
// through it; step views only read snapshots and call its operations.
type Controller struct {
	cfg      Config
	api      *api.Client
	boot     *session.Bootstrap
	drafts   *DraftStore
	verifier *verification.Manager
	uploader storage.Uploader
	notifier Notifier
	logger   *zap.Logger

	mu               sync.Mutex
	draft            *models.FormDraft
	step             models.Step
	fieldErrors      map[string]string
	loading          bool
	returningUser    bool
	identityVerified bool
	identityDeferred bool
	termsAccepted    bool
	privacyAccepted  bool
	submitted        bool
	// gen is bumped on every jump or reset; in-flight responses captured
	// under an older generation are dropped instead of resurrecting the flow.
	gen uint64
}

// NewController wires a Controller and hooks the verification manager's
// callbacks into it.
func NewController(cfg Config, apiClient *api.Client, boot *session.Bootstrap, drafts *DraftStore, verifier *verification.Manager, uploader storage.Uploader, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if cfg.PhoneCountryPrefix == "" {
		cfg.PhoneCountryPrefix = "+52"
	}
	c := &Controller{
		cfg:         cfg,
		api:         apiClient,
		boot:        boot,
		drafts:      drafts,
		verifier:    verifier,
		uploader:    uploader,
		notifier:    notifier,
		logger:      utils.GetLogger(),
		draft:       models.NewFormDraft(),
		step:        models.StepWelcome,
		fieldErrors: map[string]string{},
	}
	if verifier != nil {
		verifier.OnVerified = func() {
			c.CompleteIdentityVerification(context.Background())
		}
		verifier.OnTimeout = func() {
			c.notifier.Error("Identity verification timed out. You can try again.")
		}
	}
	return c
}

// Mount restores persisted state. When redirect parameters are present the
// snapshot is left alone; the redirect handler is about to restore state
// explicitly and must not be clobbered.
func (c *Controller) Mount(ctx context.Context, hasRedirectParams bool) {
	if hasRedirectParams {
		return
	}
	snapshot := c.drafts.Load(ctx)
	if snapshot == nil || snapshot.Step < models.StepPropertyType {
		return
	}

	c.mu.Lock()
	draft := snapshot.Draft
	c.draft = &draft
	c.step = snapshot.Step
	c.mu.Unlock()

	c.logger.Info("Resumed wizard draft", zap.Stringer("step", snapshot.Step))
}

// Unmount releases timers held by the verification manager.
func (c *Controller) Unmount() {
	if c.verifier != nil {
		c.verifier.Cancel()
	}
}

// Step returns the current step.
func (c *Controller) Step() models.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns a read snapshot of the form data.
func (c *Controller) Draft() models.FormDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.draft
}

// FieldErrors returns the validation error map of the last gate attempt.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		out[k] = v
	}
	return out
}

// Loading reports whether a transition side effect is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ReturningUser reports whether the flow branched through a mid-wizard login.
func (c *Controller) ReturningUser() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.returningUser
}

// IdentityVerified reports whether the identity check has completed.
func (c *Controller) IdentityVerified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identityVerified
}

// IdentityDeferred reports whether the user chose to verify later.
func (c *Controller) IdentityDeferred() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identityDeferred
}

// Submitted reports whether the final submission succeeded.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// UpdateDraft applies a mutation to the form data. Once the flow is past the
// identity-gated step every mutation is persisted immediately.
func (c *Controller) UpdateDraft(ctx context.Context, mutate func(*models.FormDraft)) {
	c.mu.Lock()
	mutate(c.draft)
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// persistLocked writes the draft snapshot if the flow has passed the identity
// gate. Callers hold c.mu.
func (c *Controller) persistLocked(ctx context.Context) {
	if c.step >= models.StepPropertyType {
		c.drafts.Save(ctx, c.draft, c.step)
	}
}

// Next advances the wizard by one step, running the step's gate and side
// effects. Validation failures populate the field-error map and return
// ErrValidation; side-effect failures surface a notification and leave the
// step unchanged.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}

	step := c.step
	errs := Validate(step, c.draft)
	c.fieldErrors = errs
	if len(errs) > 0 {
		c.mu.Unlock()
		return ErrValidation
	}

	switch step {
	case models.StepPersonalData:
		return c.registerAndAdvanceLocked(ctx)

	case models.StepEmailVerification:
		// Waiting state; exited only by the confirmation redirect.
		c.mu.Unlock()
		return nil

	case models.StepIdentityVerification:
		if !c.identityVerified && !c.identityDeferred {
			c.mu.Unlock()
			return nil
		}

	case models.StepPhotos:
		if len(c.draft.Photos) < c.cfg.MinListingPhotos {
			c.fieldErrors = map[string]string{"photos": "Add more photos to continue"}
			c.mu.Unlock()
			return ErrValidation
		}

	case models.StepPreview:
		c.mu.Unlock()
		return nil
	}

	to, ok := nextStep(step, flags{returning: c.returningUser})
	if !ok {
		c.mu.Unlock()
		return nil
	}
	c.step = to
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.afterAdvance(ctx, to)
	return nil
}

// registerAndAdvanceLocked runs the PersonalData side effect: a register call
// that must succeed before the e-mail waiting state is entered. The caller
// holds c.mu; it is released here.
func (c *Controller) registerAndAdvanceLocked(ctx context.Context) error {
	req := api.RegisterRequest{
		Email:       c.draft.Email,
		FirstName:   c.draft.FirstName,
		LastName:    c.draft.LastName,
		Phone:       c.cfg.PhoneCountryPrefix + NormalizePhone(c.draft.Phone),
		Password:    c.draft.Password,
		AccountType: api.AccountTypeHost,
		DateOfBirth: c.draft.DateOfBirth,
		Gender:      c.draft.Gender,
	}
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	_, err := c.api.Register(ctx, req)

	c.mu.Lock()
	c.loading = false
	if c.gen != gen {
		// The flow moved on while the call was in flight.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.notifyAPIError(err, "Registration failed. Please try again.")
		return err
	}
	c.step = models.StepEmailVerification
	c.mu.Unlock()
	return nil
}

// Prev steps backward, mirroring the forward skip rules. Leaving the identity
// step cancels any in-flight verification attempt so a later retry starts
// from scratch.
func (c *Controller) Prev(ctx context.Context) {
	c.mu.Lock()
	to, ok := prevStep(c.step, flags{returning: c.returningUser})
	if !ok {
		c.mu.Unlock()
		return
	}
	leavingIdentity := c.step == models.StepIdentityVerification
	c.step = to
	c.fieldErrors = map[string]string{}
	c.persistLocked(ctx)
	c.mu.Unlock()

	if leavingIdentity && c.verifier != nil {
		c.verifier.Cancel()
	}
}

// afterAdvance runs post-transition hooks outside the lock.
func (c *Controller) afterAdvance(ctx context.Context, to models.Step) {
	if to == models.StepIdentityVerification && c.verifier != nil {
		// One-shot status probe: users verified in an earlier attempt skip
		// the step without a new session.
		c.verifier.CheckExisting(ctx)
	}
}

// LoginExistingAccount is the Welcome branch for users who already have an
// account: authenticate, seed the session and jump straight to PropertyType,
// skipping the registration and e-mail steps.
func (c *Controller) LoginExistingAccount(ctx context.Context, email, password string) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	bundle, err := c.api.Login(ctx, api.LoginRequest{Email: email, Password: password})

	c.mu.Lock()
	c.loading = false
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.notifyAPIError(err, "Sign-in failed. Check your email and password.")
		return err
	}
	c.mu.Unlock()

	if err := c.boot.BootstrapSession(ctx, bundle); err != nil {
		c.logger.Error("Failed to seed session after login", zap.Error(err))
		c.notifier.Error("Sign-in failed. Please try again.")
		return err
	}

	c.mu.Lock()
	c.returningUser = true
	c.identityVerified = bundle.User.Verified
	c.draft.Email = bundle.User.Email
	c.draft.FirstName = bundle.User.FirstName
	c.draft.LastName = bundle.User.LastName
	c.step = models.StepPropertyType
	c.persistLocked(ctx)
	c.mu.Unlock()
	return nil
}

// ForgotPassword requests a reset e-mail. The confirmation reads the same
// whether or not the address exists.
func (c *Controller) ForgotPassword(ctx context.Context, email string) error {
	if err := c.api.ForgotPassword(ctx, email); err != nil {
		c.notifyAPIError(err, "Could not send the reset email. Please try again.")
		return err
	}
	c.notifier.Success("If that email exists, a reset link is on its way.")
	return nil
}

// HandleTokenRedirect consumes the encrypted `data` query parameter carried by
// the e-mail confirmation redirect: decrypt, seed the session and jump to
// PropertyType. An unopenable payload resets the whole flow to Welcome; that
// is the one error path that discards entered data.
func (c *Controller) HandleTokenRedirect(ctx context.Context, encoded string) error {
	bundle, err := c.boot.DecryptRedirectPayload(encoded)
	if err != nil {
		var decErr *session.DecryptionError
		if errors.As(err, &decErr) {
			c.logger.Warn("Rejected redirect payload", zap.String("reason", decErr.Reason))
		}
		c.notifier.Error("Email verification failed. Please start over.")
		c.reset(ctx)
		return err
	}

	if err := c.boot.BootstrapSession(ctx, bundle); err != nil {
		c.notifier.Error("Could not restore your session. Please try again.")
		return err
	}

	c.mu.Lock()
	c.gen++
	c.step = models.StepPropertyType
	c.identityVerified = bundle.User.Verified
	c.draft.Email = bundle.User.Email
	if bundle.User.FirstName != "" {
		c.draft.FirstName = bundle.User.FirstName
	}
	if bundle.User.LastName != "" {
		c.draft.LastName = bundle.User.LastName
	}
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.notifier.Success("Email confirmed. Let's set up your property.")
	return nil
}

// HandleVerificationRedirect consumes the identity provider's callback
// parameters. Approvals race the poll loop; both funnel into the same
// idempotent completion.
func (c *Controller) HandleVerificationRedirect(ctx context.Context, sessionID, status string) {
	switch status {
	case "approved", "success", "completed":
		if c.verifier != nil {
			c.verifier.ResolveApproved(sessionID)
		} else {
			c.CompleteIdentityVerification(ctx)
		}
	case "declined", "rejected":
		if c.verifier != nil {
			c.verifier.ResolveDeclined(sessionID)
		}
		c.notifier.Error("Identity verification was declined. You can try again or verify later.")
	default:
		c.logger.Warn("Ignoring verification callback with unknown status",
			zap.String("status", status))
	}
}

// HandleErrorRedirect consumes a `status=error` redirect (e-mail confirmation
// failures).
func (c *Controller) HandleErrorRedirect(message string) {
	if message == "" {
		message = "Verification failed. Please try again."
	}
	c.notifier.Error(message)
}

// CompleteIdentityVerification marks the identity check done and advances out
// of the identity step. Safe to call twice: the poll loop and a manual
// "I verified, continue" click may race, but Photos is entered exactly once.
func (c *Controller) CompleteIdentityVerification(ctx context.Context) {
	c.mu.Lock()
	alreadyDone := c.identityVerified && c.step != models.StepIdentityVerification
	if alreadyDone {
		c.mu.Unlock()
		return
	}
	c.identityVerified = true
	if c.step == models.StepIdentityVerification {
		c.step = models.StepPhotos
		c.persistLocked(ctx)
	}
	c.mu.Unlock()
}

// DeferIdentityVerification records the "verify later" choice; the submitted
// listing will be flagged as pending identity verification.
func (c *Controller) DeferIdentityVerification() {
	c.mu.Lock()
	c.identityDeferred = true
	c.mu.Unlock()
	if c.verifier != nil {
		c.verifier.SetDeferred(true)
	}
}

// StartIdentityVerification opens a verification attempt via the manager.
func (c *Controller) StartIdentityVerification(ctx context.Context) error {
	if c.verifier == nil {
		return nil
	}
	err := c.verifier.Start(ctx)
	if errors.Is(err, verification.ErrAuthRequired) {
		c.notifier.Error("Please finish the earlier steps before verifying your identity.")
		return ErrAuthRequired
	}
	if err != nil {
		c.notifyAPIError(err, "Could not start identity verification. Please try again.")
	}
	return err
}

// SetTermsAccepted records the terms checkbox on the preview step.
func (c *Controller) SetTermsAccepted(accepted bool) {
	c.mu.Lock()
	c.termsAccepted = accepted
	c.mu.Unlock()
}

// SetPrivacyAccepted records the privacy checkbox on the preview step.
func (c *Controller) SetPrivacyAccepted(accepted bool) {
	c.mu.Lock()
	c.privacyAccepted = accepted
	c.mu.Unlock()
}

// CanSubmit reports whether the submit control is enabled: preview step with
// both legal checkboxes ticked.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step == models.StepPreview && c.termsAccepted && c.privacyAccepted && !c.submitted
}

// Submit runs the terminal pipeline: freshen the token, upload every queued
// photo, post the assembled payload, then clear the persisted draft. Any
// failure aborts the whole submission and leaves the wizard in place for a
// retry; nothing is retried automatically.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.step != models.StepPreview || !c.termsAccepted || !c.privacyAccepted {
		c.mu.Unlock()
		return ErrNotSubmittable
	}
	if c.loading || c.submitted {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	c.loading = true
	draftCopy := *c.draft
	identityPending := c.identityDeferred && !c.identityVerified
	c.mu.Unlock()

	finish := func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}

	if !c.boot.EnsureFreshToken(ctx) {
		finish()
		c.notifier.Error("Your session expired. Please sign in again.")
		return ErrAuthRequired
	}
	token := c.boot.AccessToken(ctx)

	urls, err := c.uploader.UploadAll(ctx, draftCopy.Photos, storage.ListingPhotosFolder)
	if err != nil {
		finish()
		c.logger.Error("Photo upload failed", zap.Error(err))
		c.notifier.Error("We could not upload your photos. Please try again.")
		return err
	}

	sub := models.BuildSubmission(&draftCopy, urls, identityPending)

	// Deferred hosts may attach identity papers for manual review; they ride
	// along with the submission instead of a verification session.
	if identityPending && len(draftCopy.IdentityFiles) > 0 {
		docURLs, err := c.uploader.UploadAll(ctx, draftCopy.IdentityFiles, storage.IdentityDocsFolder)
		if err != nil {
			finish()
			c.logger.Error("Identity document upload failed", zap.Error(err))
			c.notifier.Error("We could not upload your identity documents. Please try again.")
			return err
		}
		sub.IdentityDocs = docURLs
	}

	if _, err := c.api.SubmitProperty(ctx, token, sub); err != nil {
		finish()
		c.notifyAPIError(err, "We could not submit your property. Please try again.")
		return err
	}

	c.mu.Lock()
	c.loading = false
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.submitted = true
	c.mu.Unlock()

	c.drafts.Clear(ctx)
	c.notifier.Success("Your property was submitted!")
	return nil
}

// Abandon discards the in-progress registration explicitly.
func (c *Controller) Abandon(ctx context.Context) {
	c.reset(ctx)
}

// reset returns the wizard to a pristine Welcome state and drops the
// persisted snapshot.
func (c *Controller) reset(ctx context.Context) {
	if c.verifier != nil {
		c.verifier.Cancel()
	}
	c.mu.Lock()
	c.gen++
	c.draft = models.NewFormDraft()
	c.step = models.StepWelcome
	c.fieldErrors = map[string]string{}
	c.loading = false
	c.returningUser = false
	c.identityVerified = false
	c.identityDeferred = false
	c.termsAccepted = false
	c.privacyAccepted = false
	c.mu.Unlock()

	c.drafts.Clear(ctx)
}

// notifyAPIError surfaces the backend's message when one exists, falling back
// to the given text for transport failures.
func (c *Controller) notifyAPIError(err error, fallback string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		c.notifier.Error(apiErr.Message)
		return
	}
	c.notifier.Error(fallback)
}
