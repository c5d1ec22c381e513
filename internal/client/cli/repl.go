package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a recording stub.
type execIface interface {
	Balance(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Buy(ctx context.Context) error
	Samples(ctx context.Context) error
	Markers(ctx context.Context) error
	Sample(ctx context.Context, id string) error
	Charts(ctx context.Context, id string) error
	Download(ctx context.Context) error
	Export(ctx context.Context, kind string) error
	Predictions(ctx context.Context) error
	Trend(ctx context.Context, id string) error
	History(ctx context.Context) error
	Reset(ctx context.Context) error
}

const helpText = `Available commands:
  balance            show the token balance
  upload <path>      process a CSV or Excel dataset
  buy                buy a token package
  samples            list samples of the current dataset
  markers            show the risk map markers and distribution
  sample <id>        show one sample with WHO limit checks
  charts <id>        show chart specs of one sample
  download           save the processed dataset as CSV
  export <kind>      save a report (pdf_long, pdf_short, map, excel, predictions)
  predictions        show model forecasts
  trend <id>         show the forecast trend of one sample
  history            show recent balance changes
  reset              start a fresh session with 0 tokens
  exit | quit        leave the program`

// runREPL reads one command per line from r and dispatches it to a. The
// first field is the command, the rest are its arguments. The loop exits on
// EOF or on "exit"/"quit".
//
// promptFn renders the prompt; an empty prompt is not printed. Handler
// errors are ignored here because handlers report their own failures.
func runREPL(ctx context.Context, a execIface, promptFn func() string, r *bufio.Reader) {
	for {
		if p := promptFn(); p != "" {
			printFn(p)
		}
		line, ok := readLine(r)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "balance":
			_ = a.Balance(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, " "))

		case "buy":
			_ = a.Buy(ctx)

		case "samples":
			_ = a.Samples(ctx)

		case "markers":
			_ = a.Markers(ctx)

		case "sample", "charts", "trend":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "sample":
				_ = a.Sample(ctx, args[0])
			case "charts":
				_ = a.Charts(ctx, args[0])
			default:
				_ = a.Trend(ctx, args[0])
			}

		case "download":
			_ = a.Download(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <pdf_long|pdf_short|map|excel|predictions>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "predictions":
			_ = a.Predictions(ctx)

		case "history":
			_ = a.History(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
