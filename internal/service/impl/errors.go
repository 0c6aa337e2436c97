package impl

import (
	"errors"
	"fmt"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/store"
)

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrNilStore      = errors.New("nil store")
)

// storeErr maps a store failure onto the service outcome classes. notFound is
// returned for missing rows. Errors already carrying a class pass through.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case classified(err):
		return err
	case errors.Is(err, store.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
}

func classified(err error) bool {
	for _, class := range []error{
		domain.ErrBadRequest,
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrConflict,
		domain.ErrDependency,
		domain.ErrDecryption,
	} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}
