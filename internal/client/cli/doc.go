// Package cli provides the interactive HMPI command-line client.
//
// App owns the purchase flow and dispatches REPL commands to the upload,
// prediction and report services. Run starts the ledger syncer and a
// backend connectivity watcher in the background and blocks in the REPL.
//
// Key features:
//   - Upload a dataset through the token gate and buy tokens when blocked
//   - Browse samples, risk markers, WHO exceedances and chart specs
//   - Save processed CSVs and reports to the configured sink
//   - Inspect model forecasts and the local balance journal
//
// Every failed command prints a single "Error: ..." line; see describe.
package cli
