package types

// ExitError is an error that carries a process exit status with it.
type ExitError interface {
	Error() string
	ExitStatus() int
}

// ExitCodeError implements ExitError around an arbitrary error message.
type ExitCodeError struct {
	Msg  string
	Code int
}

func (e *ExitCodeError) Error() string {
	return e.Msg
}

func (e *ExitCodeError) ExitStatus() int {
	return e.Code
}

func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Msg: err.Error(), Code: code}
}
