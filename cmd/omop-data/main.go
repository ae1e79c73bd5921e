// Package main provides the omop-data binary: schema DDL generation,
// vocabulary lookups and advisory domain-conformance checks against an OMOP
// CDM database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"omop-data/internal/cdm"
	"omop-data/internal/config"
	"omop-data/internal/database"
	"omop-data/internal/logger"
	"omop-data/internal/report"
	"omop-data/internal/repository"
	"omop-data/internal/store"
	"omop-data/internal/validate"
	"omop-data/internal/vocab"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	Version = "0.1.0"
	appName = "omop-data"
)

func main() {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired dependencies the subcommands share.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *sql.DB
	vocabs *vocab.Registry
}

func newApp(needDB bool) (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, appName)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if !needDB {
		return a, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db

	var kv store.KV
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(client)
		log.Info("lookup index sharing enabled", zap.String("redis", cfg.Redis.Addr))
	}

	catalog := vocab.BuiltinCatalog()
	if cfg.Vocab.SpecsFile != "" {
		overlay, err := vocab.LoadOverlay(cfg.Vocab.SpecsFile)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(overlay)
		log.Info("lookup spec overlay applied",
			zap.String("file", cfg.Vocab.SpecsFile),
			zap.Int("specs", len(overlay)))
	}

	concepts := repository.NewPostgresConceptRepo(db, log)
	a.vocabs = vocab.NewRegistry(concepts, catalog, kv,
		time.Duration(cfg.Vocab.CacheTTLSeconds)*time.Second, log)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = database.Close(a.db)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Typed access layer for the OMOP Common Data Model",
		Long: `omop-data declares the OMOP CDM table shapes, generates schema DDL,
builds vocabulary lookup indexes and runs advisory domain-conformance
checks. It never mutates clinical data.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(ddlCmd(), checkCmd(), lookupCmd(), exportCmd(), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

func ddlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ddl",
		Short: "Print the CDM schema creation script",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, stmt := range cdm.BootstrapSQL() {
				fmt.Println(stmt + ";")
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	var (
		limit int
		xlsx  string
	)
	cmd := &cobra.Command{
		Use:   "check [table...]",
		Short: "Run advisory domain-conformance checks",
		Long: `Checks that concept foreign keys reference concepts in their declared
vocabulary domains. Findings are advisory: they are reported, never
enforced. With no arguments every declared table is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			tables, err := resolveTables(args)
			if err != nil {
				return err
			}

			rep, err := runChecks(cmd.Context(), a, tables, limit)
			if err != nil {
				return err
			}

			for _, f := range rep.Findings {
				a.log.Warn("domain conformance", zap.String("finding", f.String()))
			}
			fmt.Printf("run %s: %d table(s), %d finding(s)\n",
				rep.RunID, len(rep.Summaries), rep.TotalFindings())

			if xlsx != "" {
				if err := rep.WriteXLSX(xlsx); err != nil {
					return err
				}
				fmt.Printf("report written to %s\n", xlsx)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max rows to check per table (0 = all)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also write the report to an Excel workbook")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		limit int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run all conformance checks and write the report workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			rep, err := runChecks(cmd.Context(), a, cdm.Tables(), limit)
			if err != nil {
				return err
			}
			if err := rep.WriteXLSX(out); err != nil {
				return err
			}
			fmt.Printf("run %s: %d finding(s), report written to %s\n",
				rep.RunID, rep.TotalFindings(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max rows to check per table (0 = all)")
	cmd.Flags().StringVar(&out, "out", "conformance.xlsx", "Output workbook path")
	return cmd
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <spec> <term...>",
		Short: "Resolve terms through a vocabulary lookup index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			resolver, err := a.vocabs.Resolver(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, term := range args[1:] {
				id, ok := resolver.LookupOK(term)
				if ok {
					fmt.Printf("%s\t%d\n", term, id)
				} else {
					fmt.Printf("%s\t%d\t(unmatched)\n", term, id)
				}
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, a *app, tables []cdm.Table, limit int) (*report.Report, error) {
	concepts := repository.NewPostgresConceptRepo(a.db, a.log)
	checker := validate.NewChecker(a.db, concepts, a.log)
	return report.Run(ctx, checker, a.cfg.Database.Database, tables, limit, a.log)
}

func resolveTables(names []string) ([]cdm.Table, error) {
	if len(names) == 0 {
		return cdm.Tables(), nil
	}
	var tables []cdm.Table
	for _, name := range names {
		t, ok := cdm.TableByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown table %q", name)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
