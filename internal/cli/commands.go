package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/sqlobject"
)

// session is an open database with the manifest's models defined.
type session struct {
	db  *sqlobject.DB
	out *OutputFormatter
}

// run loads the manifest, opens the database and calls fn. Failures are written
// through the formatter and returned with an exit code.
func run(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	manifest, err := LoadManifest(opts.Config)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "cannot load manifest", err))
	}

	var dbOpts []sqlobject.Option
	if opts.Verbose {
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		dbOpts = append(dbOpts, sqlobject.WithLogger(slog.New(handler)))
	}

	db, err := manifest.Open(dbOpts...)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "cannot open database", err))
	}
	defer func() { _ = db.Close() }()

	if err := fn(cmd.Context(), &session{db: db, out: out}); err != nil {
		if GetExitCode(err) == ExitFailure {
			err = WrapExitError(ExitFailure, "query failed", err)
		}
		return fail(out, err)
	}
	return nil
}

func fail(out *OutputFormatter, err error) error {
	_ = out.Error(err)
	return err
}

func (s *session) model(name string) (*sqlobject.Model, error) {
	m, err := s.db.Lookup(name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "unknown model", err)
	}
	return m, nil
}

// parseCriteria turns col=value arguments into a Hash. Values that parse as
// integers are inlined as numbers; "null" becomes nil.
func parseCriteria(args []string) (sqlobject.Hash, error) {
	h := make(sqlobject.Hash, len(args))
	for _, arg := range args {
		col, value, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid criterion %q: want column=value", arg))
		}
		h[col] = parseValue(value)
	}
	return h, nil
}

func parseValue(s string) any {
	if s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <model>",
		Short: "Print a model's columns in table order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				cols, err := m.Columns(ctx)
				if err != nil {
					return err
				}
				return s.out.Success(cols, cols...)
			})
		},
	}
}

// NewAllCommand creates the all command.
func NewAllCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all <model>",
		Short: "Print every record of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				records, err := m.All(ctx)
				if err != nil {
					return err
				}
				return s.out.Records(records)
			})
		},
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <model> <id>",
		Short: "Print the record with the given id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				rec, err := m.Find(ctx, parseValue(args[1]))
				if err != nil {
					return err
				}
				return s.out.Record(rec)
			})
		},
	}
}

// NewWhereCommand creates the where command.
func NewWhereCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "where <model> <column=value>...",
		Short: "Print the records matching every criterion",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				criteria, err := parseCriteria(args[1:])
				if err != nil {
					return err
				}
				records, err := m.Where(ctx, criteria)
				if err != nil {
					return err
				}
				return s.out.Records(records)
			})
		},
	}
}

// NewAssocCommand creates the assoc command.
func NewAssocCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assoc <model> <id> <association>",
		Short: "Resolve an association of one record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				a, err := m.Association(args[2])
				if err != nil {
					return WrapExitError(ExitCommandError, "unknown association", err)
				}
				rec, err := m.Find(ctx, parseValue(args[1]))
				if err != nil {
					return err
				}
				if rec == nil {
					return NewExitError(ExitFailure, fmt.Sprintf("%s %s not found", args[0], args[1]))
				}

				switch a.Kind {
				case sqlobject.KindHasMany:
					records, err := rec.HasMany(ctx, a.Name)
					if err != nil {
						return err
					}
					return s.out.Records(records)
				case sqlobject.KindHasOneThrough:
					related, err := rec.HasOneThrough(ctx, a.Name)
					if err != nil {
						return err
					}
					return s.out.Record(related)
				default:
					related, err := rec.BelongsTo(ctx, a.Name)
					if err != nil {
						return err
					}
					return s.out.Record(related)
				}
			})
		},
	}
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sql <model> <column=value>...",
		Short: "Print the SQL of a lazy relation without running it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(_ context.Context, s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				rel := m.Scope()
				for _, arg := range args[1:] {
					criteria, err := parseCriteria([]string{arg})
					if err != nil {
						return err
					}
					rel = rel.Where(criteria)
				}
				if err := rel.Err(); err != nil {
					return err
				}
				return s.out.Success(rel.SQL(), rel.SQL())
			})
		},
	}
}
