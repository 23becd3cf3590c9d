// Package sqlite writes fixes to a SQLite database with EWKB point geometry.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

const schema = `
CREATE TABLE spatial_ref (
	srid      INTEGER PRIMARY KEY,
	authority TEXT NOT NULL,
	name      TEXT NOT NULL,
	wkt       TEXT NOT NULL
);

CREATE TABLE fixes (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	tag_id INTEGER NOT NULL,
	lc     TEXT NOT NULL,
	date   TEXT NOT NULL,
	source TEXT,
	geom   BLOB NOT NULL
);

CREATE INDEX idx_fixes_tag_id ON fixes(tag_id);
`

const insertFix = `INSERT INTO fixes (tag_id, lc, date, source, geom) VALUES (?, ?, ?, ?, ?)`

// Sink inserts fixes inside a single transaction that is committed on Close.
type Sink struct {
	db   *sql.DB
	tx    *sql.Tx
	txCtx context.Context
	stmt  *sql.Stmt
	ref   spatialref.SpatialRef
}

// Create replaces any database at path with a fresh one and starts the
// insert transaction.
func Create(ctx context.Context, path string, ref spatialref.SpatialRef) (*Sink, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrapf(err, "sqlite: remove existing %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One connection keeps the transaction and the schema on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO spatial_ref (srid, authority, name, wkt) VALUES (?, ?, ?, ?)`,
		ref.SRID(), ref.Authority, ref.Name, ref.WKT(),
	); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: record spatial reference")
	}

	// The transaction outlives a cancelled run so Close can still commit the
	// rows inserted before the signal.
	txCtx := context.WithoutCancel(ctx)
	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	stmt, err := tx.PrepareContext(txCtx, insertFix)
	if err != nil {
		_ = tx.Rollback()
		db.Close()
		return nil, eris.Wrap(err, "sqlite: prepare insert")
	}

	return &Sink{db: db, tx: tx, txCtx: txCtx, stmt: stmt, ref: ref}, nil
}

// Insert adds one row. The geometry is an EWKB point in the sink's spatial
// reference. A cancelled ctx rejects the row but leaves the transaction open.
func (s *Sink) Insert(ctx context.Context, fix domain.NormalizedFix) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "sqlite: insert tag %d", fix.TagID)
	}
	data, err := ewkb.Marshal(s.ref.Point(fix.Longitude, fix.Latitude), ewkb.NDR)
	if err != nil {
		return eris.Wrapf(err, "sqlite: encode geometry for tag %d", fix.TagID)
	}
	if _, err := s.stmt.ExecContext(s.txCtx, fix.TagID, fix.LocationClass, fix.Timestamp, fix.Source, data); err != nil {
		return eris.Wrapf(err, "sqlite: insert tag %d", fix.TagID)
	}
	return nil
}

// Close commits the transaction and closes the database.
func (s *Sink) Close() error {
	var errs []error
	if err := s.stmt.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "sqlite: close statement"))
	}
	if err := s.tx.Commit(); err != nil {
		errs = append(errs, eris.Wrap(err, "sqlite: commit"))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "sqlite: close"))
	}
	return errors.Join(errs...)
}
