package chat

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Message is a single chat entry. Messages produced by the parser are plain
// data; messages built for Send must carry a non-empty Text and Username.
type Message struct {
	// Text is the message body. It may contain literal markup characters,
	// which are escaped when the message is encoded for sending.
	Text string `validate:"required"`

	// Username is untrusted and may itself contain markup. The parser only
	// ever treats it as character data.
	Username string `validate:"required"`

	// OriginHash is the opaque 40-character token the server attaches to each
	// message. It is stored verbatim and never decoded.
	OriginHash string

	// IsPrivate is passed through as the chatpassword form field. Its meaning
	// on the server is not known, so it is not reinterpreted here.
	IsPrivate bool
}

func (m Message) String() string {
	return "[ChatMessage] " + m.Username + ": " + m.Text
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports a *ValidationError naming every required field that is
// empty.
func (m Message) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{
			Fields: lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
				return fe.Field()
			}),
		}
	}
	return err
}
