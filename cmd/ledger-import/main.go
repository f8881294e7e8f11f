// Command ledger-import stages a CSV export locally, prints the preview and,
// once confirmed, submits it to a running ledger server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/models"
	"agency-ledger/pkg/config"
	"agency-ledger/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	format := flag.String("format", "bank", "source format: bank or paypay")
	encoding := flag.String("encoding", "", "auto, utf-8, shift_jis or euc-jp (default: format's own)")
	matchOrder := flag.String("match-order", "", "rule evaluation order: list or priority (default: IMPORT_MATCH_ORDER)")
	yes := flag.Bool("yes", false, "commit without asking")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.csv>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	order := cfg.Import.MatchOrder
	if *matchOrder != "" {
		order = *matchOrder
	}

	client := commit.NewClient(cfg.Client.BaseURL, cfg.Client.Token, cfg.Client.Timeout, appLogger)
	if err := run(context.Background(), client, options{
		path:         path,
		format:       *format,
		encoding:     *encoding,
		bankEncoding: cfg.Import.BankEncoding,
		matchOrder:   order,
		yes:          *yes,
	}, os.Stdin, os.Stdout, appLogger); err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	path         string
	format       string
	encoding     string
	bankEncoding string
	matchOrder   string
	yes          bool
}

type ledgerClient interface {
	ActiveRules(ctx context.Context) ([]models.AutoMatchRule, error)
	commit.Committer
}

func run(ctx context.Context, client ledgerClient, opts options, in io.Reader, out io.Writer, log *zap.Logger) error {
	bankEncoding, err := csvimport.ParseEncoding(opts.bankEncoding)
	if err != nil {
		return err
	}
	format, err := csvimport.LookupFormat(opts.format, bankEncoding)
	if err != nil {
		return err
	}
	var enc csvimport.Encoding
	if opts.encoding != "" {
		if enc, err = csvimport.ParseEncoding(opts.encoding); err != nil {
			return err
		}
	}
	order, err := csvimport.ParseMatchOrder(opts.matchOrder)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.path, err)
	}

	var matcher *csvimport.Matcher
	if format.AutoMatch {
		rules, err := client.ActiveRules(ctx)
		if err != nil {
			log.Warn("Auto-match rules unavailable, staging without them", zap.Error(err))
		}
		matcher = csvimport.NewMatcher(rules, order)
	}

	res, err := csvimport.Stage(data, format, enc, matcher)
	if err != nil {
		return err
	}

	printPreview(out, res)

	if len(res.Rows) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return nil
	}

	if !opts.yes && !confirm(in, out, len(res.Rows)) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	inserted, err := client.Commit(ctx, commit.Batch{
		SessionID: uuid.New(),
		Format:    res.Format,
		FileName:  filepath.Base(opts.path),
		Skipped:   len(res.Skipped),
		Rows:      res.Rows,
	})
	if err != nil {
		var remote *commit.RemoteError
		if errors.As(err, &remote) {
			return errors.New(remote.Message)
		}
		return err
	}

	fmt.Fprintf(out, "Imported %d rows.\n", inserted)
	return nil
}

func printPreview(out io.Writer, res *csvimport.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tTYPE\tAMOUNT\tMETHOD\tCATEGORY\tITEM")
	for i, row := range res.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i,
			strings.TrimSpace(row.TransactionDate+" "+row.TransactionTime),
			row.TransactionType,
			row.Amount.String(),
			row.PaymentMethod,
			row.Category,
			row.ItemName,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d rows staged (%s), %d matched by rules, %d skipped\n",
		len(res.Rows), res.Encoding, res.Matched, len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "  line %d: %s\n", s.Line, s.Reason)
	}
}

func confirm(in io.Reader, out io.Writer, n int) bool {
	fmt.Fprintf(out, "Commit %d rows? [y/N] ", n)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
