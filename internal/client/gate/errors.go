package gate

import "errors"

var (
	ErrInvalidFileType = errors.New("invalid file type: use .csv, .xlsx or .xls")
	ErrFileTooLarge    = errors.New("file too large: the limit is 10 MiB")
)
