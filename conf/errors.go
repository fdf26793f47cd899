package conf

import "errors"

var (
	ErrMalformed       = errors.New("failed to get conf, file is malformed")
	ErrCreateConfDir   = errors.New("failed to create conf dir")
	ErrSerializeConf   = errors.New("failed to serialize conf")
	ErrUnhandledIo     = errors.New("unhandled io error")
	ErrSaveConf        = errors.New("failed to save conf")
	ErrGetProfileInUse = errors.New("failed to get profile in use")
	ErrResetConf       = errors.New("failed to reset conf")
)
