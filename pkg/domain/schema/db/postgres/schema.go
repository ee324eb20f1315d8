package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain/schema/db"
	xe "github.com/investperdiem/perdiem/pkg/errors"
)

// pgSchema applies a schema repository: a directory containing
// directories named by version numbers (1, 2, ...) holding *.sql files.
//
// Files in a version are applied in lexical order.
type pgSchema struct {
	pool       kpool.Pool
	repository string
}

var _ db.SchemaInterface = &pgSchema{}

func New(pool kpool.Pool, repository string) db.SchemaInterface {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Number int
	Root   string
}

func (v version) apply(ctx context.Context, q kpool.Queryer) error {
	return filepath.WalkDir(v.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		query, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("schema version %d, %s: %w", v.Number, filepath.Base(path), err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

// currentVersion queries the version without failing on a fresh database,
// so that it can be called in a transaction.
func currentVersion(ctx context.Context, q kpool.Queryer) (int, error) {
	var exists bool
	if err := q.QueryRow(
		ctx, `select to_regclass('"schema_version"') is not null`,
	).Scan(&exists); err != nil {
		return -1, xe.Wrap(err)
	}
	if !exists {
		return 0, nil
	}

	var v *int
	if err := q.QueryRow(
		ctx, `select max("version") from "schema_version"`,
	).Scan(&v); err != nil {
		return -1, xe.Wrap(err)
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// serialize upgraders
	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock(hashtext('schema_version'))`); err != nil {
		return xe.Wrap(err)
	}

	current, err := currentVersion(ctx, tx)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if v.Number <= current {
			continue
		}
		if err := v.apply(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `insert into "schema_version" ("version") values ($1)`, v.Number,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		w.Close()
		cancel(err)
		return cctx, func() {}
	}

	check := func() {
		versions, err := s.versions()
		if err != nil {
			cancel(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			cancel(fmt.Errorf("failed to get schema version: %w", err))
			return
		}
		if len(versions) == 0 {
			return
		}
		if latest := versions[len(versions)-1]; current < latest.Number {
			cancel(fmt.Errorf(
				"schema is outdated: %d (in database) < %d (in repository)",
				current, latest.Number,
			))
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Dir(ev.Name) != filepath.Clean(s.repository) {
					continue
				}
				check()
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

// versions lists versions in the repository, in ascending order.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, err
	}

	versions := make([]version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		versions = append(versions, version{
			Number: n, Root: filepath.Join(s.repository, entry.Name()),
		})
	}
	slices.SortFunc(versions, func(a, b version) int { return cmp.Compare(a.Number, b.Number) })
	return versions, nil
}

// Null is a schema without a repository. It never upgrades, and never gets outdated.
func Null() db.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) error {
	return errors.New("no schema repository is given")
}

func (nullSchema) Version(context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
