package chef

import "errors"

// ValidationError is an input problem detected before any backend call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrNoIngredients = &ValidationError{Message: "Selecione pelo menos um ingrediente."}
	ErrEmptyTerm     = &ValidationError{Message: "Informe o que a Borracha Mágica deve remover."}
	ErrInvalidURL    = &ValidationError{Message: "Informe um endereço http ou https válido."}
)

// userMessage returns the message of a wrapped ValidationError, or fallback.
func userMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}

// GenerationError is returned when a recipe could not be generated from ingredients.
type GenerationError struct{ Err error }

func (e *GenerationError) Error() string {
	return userMessage(e.Err, "Não foi possível gerar a receita. Tente novamente.")
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RewriteError is returned when a draft could not be rewritten.
type RewriteError struct{ Err error }

func (e *RewriteError) Error() string {
	return userMessage(e.Err, "Não foi possível reescrever a receita. Tente novamente.")
}

func (e *RewriteError) Unwrap() error { return e.Err }

// EraseError is returned when the Magic Eraser failed.
type EraseError struct{ Err error }

func (e *EraseError) Error() string {
	return userMessage(e.Err, "A Borracha Mágica falhou. Tente novamente.")
}

func (e *EraseError) Unwrap() error { return e.Err }

// ImportError is returned when a recipe could not be imported from a URL.
type ImportError struct{ Err error }

func (e *ImportError) Error() string {
	return userMessage(e.Err, "Não foi possível importar a receita. Tente novamente.")
}

func (e *ImportError) Unwrap() error { return e.Err }
