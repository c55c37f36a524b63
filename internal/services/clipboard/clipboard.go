// Package clipboard copies rendered documents to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copier delivers a rendered document to the system clipboard.
type Copier interface {
	Copy(document string) error
}

// Service is the production Copier backed by github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy places the document on the system clipboard.
func (service *Service) Copy(document string) error {
	if writeErr := clipboard.WriteAll(document); writeErr != nil {
		return fmt.Errorf("write clipboard: %w", writeErr)
	}
	return nil
}

var _ Copier = (*Service)(nil)
