package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/v0xg/checkoutpage/internal/address"
	"github.com/v0xg/checkoutpage/internal/ai"
	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/checkout"
	"github.com/v0xg/checkoutpage/internal/config"
	"github.com/v0xg/checkoutpage/internal/crawler"
	"github.com/v0xg/checkoutpage/internal/recorder"
)

var (
	baseURL  string
	headless bool
	timeout  time.Duration
	record   string
	profile  string
	verbose  bool

	form     address.Address
	province string
	email    string
	password string
	next     bool

	suggest      bool
	providerName string
	model        string
)

var (
	errAddressMismatch    = errors.New("pre-filled address does not match")
	errInvalidCredentials = errors.New("invalid credentials")
	errSignInNotCompleted = errors.New("login panel still present after signing in")
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "checkoutpage",
		Short: "Drive a shop's checkout address step in a real browser",
		Long: `checkoutpage opens the checkout address page of a shop and runs page operations
against it: filling an address, comparing a pre-filled one, signing in or auditing locators.

Settings come from CHECKOUT_* environment variables (or a .env file) and can be overridden by flags.

Example:
  checkoutpage fill shipping --first-name Jon --last-name Snow --street "Rue de Rivoli 1" \
    --city Paris --postcode 75001 --country FR --record checkout.gif`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", "", "Shop base URL (default: CHECKOUT_BASE_URL)")
	pf.BoolVar(&headless, "headless", true, "Run the browser without a window")
	pf.DurationVar(&timeout, "timeout", 0, "Wait budget for asynchronously rendered fields (default: CHECKOUT_WAIT_TIMEOUT)")
	pf.StringVar(&record, "record", "", "Save the run as a GIF at this path")
	pf.StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	rootCmd.AddCommand(newFillCmd(), newCompareCmd(), newSignInCmd(), newAuditCmd())
	return rootCmd
}

func addAddressFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&form.FirstName, "first-name", "", "First name")
	f.StringVar(&form.LastName, "last-name", "", "Last name")
	f.StringVar(&form.Street, "street", "", "Street")
	f.StringVar(&form.City, "city", "", "City")
	f.StringVar(&form.Postcode, "postcode", "", "Postcode")
	f.StringVar(&form.CountryCode, "country", "", "Country code (empty selects the placeholder)")
	f.StringVar(&province, "province", "", "Free-text province name")
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "fill <shipping|billing>",
		Short:     "Fill an address form",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(address.Shipping), string(address.Billing)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := address.AssertType(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("province") {
				form.ProvinceName = &province
			}

			return withPage(cmd, func(page *checkout.AddressPage) error {
				if email != "" {
					if err := page.SpecifyEmail(email); err != nil {
						return err
					}
				}

				fmt.Printf("→ Filling %s address... ", t)
				fill := page.SpecifyShippingAddress
				if t == address.Billing {
					if err := page.ChooseDifferentBillingAddress(); err != nil {
						fmt.Println("failed")
						return err
					}
					fill = page.SpecifyBillingAddress
				}
				if err := fill(&form); err != nil {
					fmt.Println("failed")
					return err
				}
				fmt.Println("done")

				if next {
					fmt.Printf("→ Submitting address step... ")
					if err := page.NextStep(); err != nil {
						fmt.Println("failed")
						return err
					}
					fmt.Println("done")
				}
				return nil
			})
		},
	}

	addAddressFlags(cmd)
	cmd.Flags().StringVar(&email, "email", "", "Guest customer email")
	cmd.Flags().BoolVar(&next, "next", false, "Submit the address step afterwards")
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <shipping|billing>",
		Short: "Compare the pre-filled address form with an expected address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := address.AssertType(args[0])
			if err != nil {
				return err
			}

			return withPage(cmd, func(page *checkout.AddressPage) error {
				compare := page.ComparePreFilledShippingAddress
				if t == address.Billing {
					compare = page.ComparePreFilledBillingAddress
				}

				diff, err := compare(&form)
				if err != nil {
					return err
				}
				if len(diff) == 0 {
					fmt.Printf("✓ %s address matches\n", t)
					return nil
				}

				printDiff(diff)
				return errAddressMismatch
			})
		},
	}

	addAddressFlags(cmd)
	return cmd
}

func newSignInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in as a returning customer from the address step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPage(cmd, func(page *checkout.AddressPage) error {
				return signIn(page, email, password)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Customer email")
	cmd.Flags().StringVar(&password, "password", "", "Customer password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// signIn logs in from the address step. The error label is only looked for while the login panel stays.
func signIn(page *checkout.AddressPage, email, password string) error {
	if err := page.SpecifyEmail(email); err != nil {
		return err
	}

	fmt.Printf("→ Waiting for sign-in... ")
	if !page.CanSignIn() {
		fmt.Println("failed")
		return fmt.Errorf("sign-in is not offered for %s", email)
	}
	fmt.Println("done")

	if err := page.SpecifyPassword(password); err != nil {
		return err
	}
	if err := page.SignIn(); err != nil {
		return err
	}

	if !page.IsLoginPanelPresent() {
		fmt.Println("✓ Signed in")
		return nil
	}

	invalid, err := page.CheckInvalidCredentialsValidation()
	if err != nil {
		return fmt.Errorf("read login result: %w", err)
	}
	if invalid {
		return errInvalidCredentials
	}
	return errSignInNotCompleted
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List page locators that match nothing on the live page",
		Long: `audit opens the checkout address page and lists the locators that match nothing.

Province locators only match once a country with provinces is chosen, so they are
normally reported. With --suggest, an AI provider proposes replacement selectors from a
snapshot of the page's form controls.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkout.ValidateLocators(); err != nil {
				return err
			}

			var provider ai.Provider
			if suggest {
				p, err := ai.NewProvider(selectedProvider(), model)
				if err != nil {
					return fmt.Errorf("AI provider init failed: %w", err)
				}
				provider = p
			}

			return withSession(cmd, func(session *browser.RodSession, page *checkout.AddressPage) error {
				missing := page.MissingElements()
				fmt.Printf("%d of %d locators missing\n", len(missing), len(checkout.Locators()))

				broken := make([]ai.BrokenLocator, 0, len(missing))
				for _, name := range missing {
					sel, _ := checkout.Selector(name)
					fmt.Printf("  %s → %s\n", name, sel)
					broken = append(broken, ai.BrokenLocator{Name: string(name), Selector: sel})
				}

				if provider == nil || len(broken) == 0 {
					return nil
				}

				fmt.Printf("→ Analyzing page form... ")
				formMap, err := crawler.Snapshot(session.Page())
				if err != nil {
					fmt.Println("failed")
					return fmt.Errorf("snapshot failed: %w", err)
				}
				fmt.Printf("done (found %d controls)\n", len(formMap.Controls))

				fmt.Printf("→ Suggesting selectors... ")
				suggestions, err := provider.SuggestSelectors(cmd.Context(), formMap, broken)
				if err != nil {
					fmt.Println("failed")
					return fmt.Errorf("suggestion failed: %w", err)
				}
				fmt.Printf("done (%d suggestions)\n", len(suggestions))

				for _, b := range broken {
					if sel, ok := suggestions[b.Name]; ok {
						fmt.Printf("  %s → %s\n", b.Name, sel)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&suggest, "suggest", false, "Ask an AI provider for replacement selectors")
	cmd.Flags().StringVar(&providerName, "provider", "", "AI provider: claude, openai (default: from env or claude)")
	cmd.Flags().StringVar(&model, "model", "", "Specific model override")
	return cmd
}

// selectedProvider resolves the AI provider from the flag or CHECKOUT_DEFAULT_PROVIDER
func selectedProvider() string {
	if providerName != "" {
		return providerName
	}
	if env := os.Getenv("CHECKOUT_DEFAULT_PROVIDER"); env != "" {
		return env
	}
	return "claude"
}

// withPage launches a browser, opens the address step and runs fn against it
func withPage(cmd *cobra.Command, fn func(page *checkout.AddressPage) error) error {
	return withSession(cmd, func(_ *browser.RodSession, page *checkout.AddressPage) error {
		return fn(page)
	})
}

// withSession is withPage for callers that also need the raw browser session
func withSession(cmd *cobra.Command, fn func(session *browser.RodSession, page *checkout.AddressPage) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	fmt.Printf("→ Launching browser... ")
	session, err := browser.Launch(browser.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Headless:   cfg.Headless,
		ProfileDir: cfg.ProfileDir,
	})
	if err != nil {
		fmt.Println("failed")
		return err
	}
	defer session.Close()
	fmt.Println("done")

	opts := checkout.Options{Timeout: cfg.WaitTimeout, PollInterval: cfg.PollInterval}
	var rec *recorder.Recorder
	if cfg.Record != "" {
		rec = recorder.New(session, logger)
		opts.Observer = rec
	}

	page := checkout.New(session, address.NewFactory(), logger, opts)

	fmt.Printf("→ Opening %s... ", cfg.BaseURL)
	if err := page.Open(cfg.BaseURL); err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("done")

	runErr := fn(session, page)

	// Failed runs are recorded too
	if rec != nil {
		fmt.Printf("→ Generating GIF (%d frames)... ", len(rec.Frames()))
		size, err := rec.Save(cfg.Record, recorder.Options{})
		if errors.Is(err, recorder.ErrNoFrames) {
			fmt.Println("skipped (no frames)")
			return runErr
		}
		if err != nil {
			fmt.Println("failed")
			return errors.Join(runErr, fmt.Errorf("GIF generation failed: %w", err))
		}
		fmt.Println("done")
		fmt.Printf("✓ Saved to %s (%.1f KB)\n", cfg.Record, float64(size)/1024)
	}

	return runErr
}

// loadConfig merges environment settings with flags set on the command line
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("headless") {
		cfg.Headless = headless
	}
	if flags.Changed("timeout") {
		cfg.WaitTimeout = timeout
	}
	if flags.Changed("record") {
		cfg.Record = record
	}
	if flags.Changed("profile") {
		cfg.ProfileDir = profile
	}

	return cfg, cfg.Validate()
}

func printDiff(diff address.Diff) {
	fields := make([]string, 0, len(diff))
	for field := range diff {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		d := diff[field]
		fmt.Printf("  %s: got %q, expected %q\n", field, d.Got, d.Expected)
	}
}
