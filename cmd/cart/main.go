package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/checkout"
	"github.com/noah-isme/toko-cart/internal/discount"
	"github.com/noah-isme/toko-cart/internal/obs"
)

const (
	exitOK    = 0
	exitLoad  = 1
	exitUsage = 2
)

// errLoad marks failures after the arguments were accepted.
var errLoad = errors.New("load")

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type offerList []discount.Offer

func (l *offerList) String() string {
	parts := make([]string, 0, len(*l))
	for _, o := range *l {
		parts = append(parts, o.Kind+":"+o.Product)
	}
	return strings.Join(parts, ",")
}

func (l *offerList) Set(value string) error {
	offer, err := discount.ParseOffer(value)
	if err != nil {
		return err
	}
	*l = append(*l, offer)
	return nil
}

func (l *offerList) Type() string {
	return "offer"
}

type options struct {
	catalog   string
	times     int
	format    string
	logFormat string
	logLevel  string
	offers    offerList
}

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "cart",
		Short:         "Price a cart built from a product catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkoutCatalog(opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return err
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.catalog, "catalog", os.Getenv("CATALOG_PATH"), "catalog file, or inline id,price rows")
	flags.IntVar(&opts.times, "times", 1, "how many times to add each catalog product")
	flags.StringVar(&opts.format, "format", "text", "receipt format: text or csv")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flags.Var(&opts.offers, "offer", "discount offer, repeatable: buy_x_get_y:<product>[:<buy>:<get>] or percent_off:<product>:<discounted>:<fraction>")
	return cmd
}

// run adds every catalog product to a cart times times, applies the offers in
// order and prints the receipt.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errLoad):
		return exitLoad
	default:
		fmt.Fprintf(stderr, "cart: %v\nRun 'cart --help' for usage.\n", err)
		return exitUsage
	}
}

func checkoutCatalog(opts *options, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.catalog) == "" {
		return errors.New("--catalog is required")
	}
	if opts.times < 0 {
		return errors.New("--times must not be negative")
	}
	if opts.format != "text" && opts.format != "csv" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	logger := obs.NewLoggerTo(stderr, opts.logFormat, opts.logLevel)

	products, err := catalog.Load(opts.catalog)
	if err != nil {
		logger.Error().Err(err).Msg("load catalog")
		return fmt.Errorf("%w: %v", errLoad, err)
	}

	c := cart.New()
	for i := 0; i < opts.times; i++ {
		if err := c.AddProducts(products.Products()...); err != nil {
			logger.Error().Err(err).Msg("add products")
			return fmt.Errorf("%w: %v", errLoad, err)
		}
	}
	for _, offer := range opts.offers {
		outcome := checkout.ApplyOffer(c, offer)
		evt := logger.Info()
		if outcome.Status != checkout.StatusApplied {
			evt = logger.Warn()
		}
		evt.Str("kind", offer.Kind).
			Str("product", offer.Product).
			Str("status", outcome.Status).
			Str("amount", outcome.Amount.StringFixed(2)).
			Str("reason", outcome.Reason).
			Msg("offer")
	}

	receipt, err := c.Checkout()
	if err != nil {
		logger.Error().Err(err).Msg("checkout")
		return fmt.Errorf("%w: %v", errLoad, err)
	}
	switch opts.format {
	case "csv":
		fmt.Fprintln(stdout, cart.FormatCSV(receipt))
	default:
		fmt.Fprintln(stdout, cart.FormatText(receipt))
	}
	return nil
}
