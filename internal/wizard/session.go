package wizard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"tumaini/internal/domain"
)

// Step is the wizard position. Transitions are linear; steps 2 and 3 may go
// back exactly one step, step 4 is terminal.
type Step int

const (
	StepAmount  Step = 1
	StepDonor   Step = 2
	StepPayment Step = 3
	StepOutcome Step = 4
)

func (s Step) String() string {
	switch s {
	case StepAmount:
		return "amount"
	case StepDonor:
		return "donor"
	case StepPayment:
		return "payment"
	case StepOutcome:
		return "outcome"
	}
	return "unknown"
}

// Outcome variant shown on step 4.
const (
	OutcomeSuccess = "success"
	OutcomeManual  = "manual"
)

var (
	ErrAmountTooLow  = errors.New("minimum donation is 100")
	ErrEmailRequired = errors.New("donor email is required")
	ErrWrongStep     = errors.New("action not valid for current step")
	ErrCannotGoBack  = errors.New("cannot go back from this step")
	ErrInvalidMethod = errors.New("unknown payment method")
	ErrInFlight      = errors.New("a payment attempt is already in progress")
)

// Session is one donor's walk through the 4-step flow. All mutation goes
// through the guarded methods; the zero reference is generated exactly once
// per session, so pay-button retries reuse it instead of minting a second
// ledger record.
type Session struct {
	ID        string
	FundID    uint
	FundTitle string

	mu         sync.Mutex
	step       Step
	outcome    string
	amount     int64
	donorName  string
	donorEmail string
	donorPhone string
	message    string
	method     string
	reference  string
	recorded   bool // PENDING ledger record exists
	inFlight   bool

	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewSession(id string, fundID uint, fundTitle string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		FundID:    fundID,
		FundTitle: fundTitle,
		step:      StepAmount,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// SubmitAmount is the 1→2 transition. Rejected amounts leave the session on
// step 1 untouched.
func (s *Session) SubmitAmount(amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepAmount {
		return ErrWrongStep
	}
	if amount < domain.MinDonationAmount {
		return ErrAmountTooLow
	}
	s.amount = amount
	s.step = StepDonor
	return nil
}

// SubmitDonor is the 2→3 transition. Email presence is the only check; a
// blank name becomes Anonymous.
func (s *Session) SubmitDonor(name, email, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepDonor {
		return ErrWrongStep
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.AnonymousDonor
	}
	s.donorName = name
	s.donorEmail = email
	s.donorPhone = strings.TrimSpace(phone)
	s.message = strings.TrimSpace(message)
	s.step = StepPayment
	return nil
}

// Back steps 2→1 or 3→2. The outcome step is terminal.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case StepDonor:
		s.step = StepAmount
	case StepPayment:
		s.step = StepDonor
	default:
		return ErrCannotGoBack
	}
	return nil
}

// BeginPayment claims the session for one pay attempt and returns the
// reference, generating it on the first call only. The caller must call
// EndPayment when the attempt (ledger write + gateway handoff) finishes,
// whatever the result. A second concurrent call gets ErrInFlight.
func (s *Session) BeginPayment(method string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPayment {
		return "", ErrWrongStep
	}
	if method != domain.DonationMethodPaystack && method != domain.DonationMethodBank {
		return "", ErrInvalidMethod
	}
	if s.inFlight {
		return "", ErrInFlight
	}
	s.inFlight = true
	s.method = method
	if s.reference == "" {
		s.reference = GenerateReference()
	}
	return s.reference, nil
}

func (s *Session) EndPayment() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// MarkRecorded notes that the PENDING ledger record exists, so later
// attempts skip straight to the gateway handoff.
func (s *Session) MarkRecorded() {
	s.mu.Lock()
	s.recorded = true
	s.mu.Unlock()
}

// CompleteManual moves to the outcome step for a bank transfer: the record
// stays PENDING and the donor is shown the bank details plus reference.
func (s *Session) CompleteManual() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPayment {
		return ErrWrongStep
	}
	s.step = StepOutcome
	s.outcome = OutcomeManual
	return nil
}

// CompleteSuccess moves to the outcome step after the reconciliation
// endpoint confirmed the charge. Idempotent once on the outcome step.
func (s *Session) CompleteSuccess() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepOutcome && s.outcome == OutcomeSuccess {
		return nil
	}
	if s.step != StepPayment {
		return ErrWrongStep
	}
	s.step = StepOutcome
	s.outcome = OutcomeSuccess
	return nil
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Outcome() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

func (s *Session) Amount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amount
}

func (s *Session) Reference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

func (s *Session) Method() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

func (s *Session) Recorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorded
}

// Donor returns the collected donor fields.
func (s *Session) Donor() (name, email, phone, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.donorName, s.donorEmail, s.donorPhone, s.message
}
