package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
)

// describe turns an error into the single line shown to the user.
func describe(err error) string {
	var msg string
	switch {
	case errors.Is(err, gate.ErrInvalidFileType):
		msg = "Invalid file type. Upload a CSV or Excel file."
	case errors.Is(err, gate.ErrFileTooLarge):
		msg = "File too large. The maximum size is 10MB."
	case errors.Is(err, services.ErrNoDataset):
		msg = "No dataset yet. Upload one with 'upload <path>'."
	case errors.Is(err, services.ErrChartsUnavailable):
		msg = "Charts are not available for this sample."
	case errors.Is(err, client.ErrUnavailable):
		msg = fmt.Sprintf("The backend is unreachable (%v).", err)
	default:
		msg = err.Error()
	}
	return strings.ReplaceAll(msg, "\n", " ")
}
