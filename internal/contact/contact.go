// Package contact handles the storefront contact form: validate, log,
// acknowledge. Submissions are recorded in the logs only; nothing is
// forwarded to an external system.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidForm wraps every validation failure; check with errors.Is.
var ErrInvalidForm = errors.New("contact: invalid form")

// Form carries the four text fields collected from the visitor.
type Form struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID         string
	ReceivedAt time.Time
	Reply      string
}

const replyMessage = "Thank you for your message! We will get back to you soon."

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Submit validates the form, logs it, and returns the acknowledgement.
func (s *Service) Submit(ctx context.Context, f Form) (Receipt, error) {
	if err := f.validate(); err != nil {
		return Receipt{}, err
	}

	r := Receipt{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().UTC(),
		Reply:      replyMessage,
	}

	slog.InfoContext(ctx, "contact form submitted",
		"receipt_id", r.ID,
		"name", f.Name,
		"email", f.Email,
		"subject", f.Subject,
	)
	return r, nil
}

func (f Form) validate() error {
	fields := []struct {
		name, value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidForm, field.name)
		}
	}
	if !strings.Contains(f.Email, "@") {
		return fmt.Errorf("%w: email address looks invalid", ErrInvalidForm)
	}
	return nil
}
