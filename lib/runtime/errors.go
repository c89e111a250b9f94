package runtime

import (
	"errors"
	"fmt"
	"os"

	"github.com/chazu/objmodel/lib/platform"
)

// Error kinds raised by the registry. Callers match them with errors.Is.
var (
	ErrUnknownSuper              = errors.New("unknown super")
	ErrSuperIsTrait              = errors.New("super is a trait")
	ErrSelfInheritance           = errors.New("class cannot inherit from itself")
	ErrDuplicateSuper            = errors.New("super already extended")
	ErrMultipleClassSupers       = errors.New("only the first super may be a class")
	ErrTraitConstructorHasParams = errors.New("trait constructor takes arguments")
	ErrMissingSuperInit          = errors.New("super constructor takes arguments but no super init was declared")
	ErrCircularInheritance       = errors.New("circular inheritance")
	ErrUnknownClass              = errors.New("unknown class")
	ErrDeleteUndeclared          = errors.New("delete of instance without a class")
	ErrDuplicateName             = errors.New("name already declared")
	ErrTraitExtendsClass         = errors.New("trait cannot extend a class")
	ErrTraitNotInstantiable      = errors.New("traits cannot be instantiated")
	ErrNotAMethod                = errors.New("member is not a method")
)

// ErrorHandler receives every error the registry raises before the failing
// operation returns it. A handler that never returns aborts the operation.
type ErrorHandler func(err error)

// FatalHandler logs the error and exits the process. It is the default.
func FatalHandler(err error) {
	log.Criticalf("%s", err)
	os.Exit(1)
}

// LogHandler logs the error and lets the operation return it.
func LogHandler(err error) {
	log.Errorf("%s", err)
}

// PanicHandler panics with the error.
func PanicHandler(err error) {
	panic(err)
}

// HookHandler logs the error and runs command through the host shell with
// OBJMODEL_ERROR set to the error text.
func HookHandler(command string) ErrorHandler {
	return func(err error) {
		log.Errorf("%s", err)
		if ok, code := platform.ExecuteWith(command, []string{"OBJMODEL_ERROR=" + err.Error()}); !ok {
			log.Warningf("error hook %q exited with %d", command, code)
		}
	}
}

// raise reports err through the registry's handler and returns it.
func (r *Registry) raise(kind error, format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
	if h := r.handler; h != nil {
		h(err)
	}
	return err
}
