package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	postgresRepo "github.com/zeroedbooks/ledger/internal/adapter/repository/postgres"
	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/auth"
	"github.com/zeroedbooks/ledger/internal/infrastructure/config"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

type currencyService interface {
	Seed(ctx context.Context, codes []string) ([]domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

type balanceService interface {
	TotalByCurrency(ctx context.Context, owner, account string) ([]domain.CurrencyAmount, error)
	Trend(ctx context.Context, input usecase.TrendInput) ([]domain.TrendPoint, error)
}

// services are the use cases a command runs against.
type services struct {
	currencies currencyService
	balances   balanceService
}

// app holds the dependencies of every ledgerctl command. The function fields are
// replaced in tests.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	migrateUp   func(databaseURL string, logger zerolog.Logger) error
	migrateDown func(databaseURL string, logger zerolog.Logger) error
	open        func(ctx context.Context) (*services, func(), error)
}

func newApp(cfg *config.Config, logger zerolog.Logger) *app {
	a := &app{
		cfg:         cfg,
		logger:      logger,
		migrateUp:   postgres.RunMigrations,
		migrateDown: postgres.RunMigrationsDown,
	}
	a.open = a.openDatabase

	return a
}

// openDatabase connects to the primary database and builds the use cases the
// commands need.
func (a *app) openDatabase(ctx context.Context) (*services, func(), error) {
	pool, err := postgres.Open(ctx, postgres.PoolConfig{
		DatabaseURL:    a.cfg.DatabaseURL,
		MaxConns:       2,
		ConnectTimeout: a.cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	svc := &services{
		currencies: usecase.NewCurrencyUseCase(postgresRepo.NewCurrencyRepository(pool)),
		balances:   usecase.NewBalanceUseCase(postgresRepo.NewReportRepository(pool)),
	}

	return svc, pool.Close, nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger administration tool",
		Long:          `Runs migrations, manages the currency catalog and queries balances directly against the ledger database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(a.migrateCmd(), a.currencyCmd(), a.balanceCmd(), a.trendCmd(), a.tokenCmd())

	return root
}

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.migrateUp(a.cfg.DatabaseURL, a.logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.migrateDown(a.cfg.DatabaseURL, a.logger)
			},
		},
	)

	return cmd
}

func (a *app) currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Manage the currency catalog",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "seed [CODES...]",
			Short: "Seed ISO 4217 currencies (defaults to a common set)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withServices(cmd, func(svc *services) error {
					seeded, err := svc.currencies.Seed(cmd.Context(), args)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d currencies\n", len(seeded))

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print the currency catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withServices(cmd, func(svc *services) error {
					currencies, err := svc.currencies.List(cmd.Context())
					if err != nil {
						return err
					}

					w := newTable(cmd.OutOrStdout())
					fmt.Fprintln(w, "CODE\tSYMBOL\tMINOR UNITS")
					for _, c := range currencies {
						fmt.Fprintf(w, "%s\t%s\t%d\n", c.Code, c.Symbol, c.MinorUnits)
					}

					return w.Flush()
				})
			},
		},
	)

	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance OWNER ACCOUNT",
		Short: "Print the total of an account subtree per currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd, func(svc *services) error {
				totals, err := svc.balances.TotalByCurrency(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "CURRENCY\tBALANCE")
				for _, t := range totals {
					fmt.Fprintf(w, "%s\t%s\n", t.Currency.Code, t)
				}

				return w.Flush()
			})
		},
	}
}

func (a *app) trendCmd() *cobra.Command {
	var interval string

	cmd := &cobra.Command{
		Use:   "trend OWNER ACCOUNT",
		Short: "Print the running balance of an account subtree over the last year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := domain.ParseBucketUnit(interval)
			if err != nil {
				return err
			}

			return a.withServices(cmd, func(svc *services) error {
				points, err := svc.balances.Trend(cmd.Context(), usecase.TrendInput{
					Owner:   args[0],
					Account: args[1],
					Unit:    unit,
				})
				if err != nil {
					return err
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "BUCKET\tCURRENCY\tCHANGE\tBALANCE")
				for _, p := range points {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						p.BucketStart.Format("2006-01-02"),
						p.Currency.Code,
						p.Currency.Format(p.Amount),
						p.Currency.Format(p.RunningTotal))
				}

				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&interval, "interval", string(domain.BucketMonth), "bucket width: day, week or month")

	return cmd
}

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "issue OWNER",
		Short: "Print a bearer token for OWNER signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			token, err := auth.NewJWTManager(a.cfg.JWTSecret, a.cfg.JWTExpiration).Generate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	})

	return cmd
}

func (a *app) withServices(cmd *cobra.Command, fn func(svc *services) error) error {
	svc, closeFn, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(svc)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}
