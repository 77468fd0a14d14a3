package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/secondary"
)

const visitColumns = `id, timestamp, client, technician, notes, photo_paths_json, pdf_path,
	user_entries_json, delivery_state, latitude, longitude`

// VisitRepository implements secondary.VisitRepository with SQLite.
type VisitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVisitRepository creates a new SQLite visit repository.
func NewVisitRepository(db *sql.DB, logger *zap.Logger) *VisitRepository {
	return &VisitRepository{db: db, logger: logger}
}

// Create persists a new visit and returns its ID.
func (r *VisitRepository) Create(ctx context.Context, record *secondary.VisitRecord) (int64, error) {
	photos, entries, err := encodeVisitJSON(record)
	if err != nil {
		return 0, err
	}

	var id int64
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO reports (timestamp, client, technician, notes, photo_paths_json, pdf_path,
				user_entries_json, delivery_state, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Timestamp, record.ClientName, record.TechnicianName, record.Notes, photos,
			record.PDFPath, entries, int(record.DeliveryState), record.Latitude, record.Longitude,
		)
		if err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read visit id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("visit created", zap.Int64("visit_id", id), zap.String("client", record.ClientName))
	return id, nil
}

// Update overwrites every mutable column of a visit. The ID is never changed.
func (r *VisitRepository) Update(ctx context.Context, record *secondary.VisitRecord) error {
	photos, entries, err := encodeVisitJSON(record)
	if err != nil {
		return err
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE reports SET timestamp = ?, client = ?, technician = ?, notes = ?,
				photo_paths_json = ?, pdf_path = ?, user_entries_json = ?, delivery_state = ?,
				latitude = ?, longitude = ?
			WHERE id = ?`,
			record.Timestamp, record.ClientName, record.TechnicianName, record.Notes, photos,
			record.PDFPath, entries, int(record.DeliveryState), record.Latitude, record.Longitude,
			record.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update visit: %w", err)
		}
		return expectOneRow(res, record.ID)
	})
}

// GetByID retrieves a visit by its ID.
func (r *VisitRepository) GetByID(ctx context.Context, id int64) (*secondary.VisitRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+visitColumns+" FROM reports WHERE id = ?", id)
	record, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visit %d %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return record, nil
}

// SetDeliveryState updates only delivery_state.
func (r *VisitRepository) SetDeliveryState(ctx context.Context, id int64, state visit.DeliveryState) error {
	if !state.Valid() {
		return fmt.Errorf("invalid delivery state %d", state)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE reports SET delivery_state = ? WHERE id = ?", int(state), id)
		if err != nil {
			return fmt.Errorf("failed to set delivery state: %w", err)
		}
		return expectOneRow(res, id)
	})
}

// List retrieves all visits, most recent ID first.
func (r *VisitRepository) List(ctx context.Context) ([]*secondary.VisitRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+visitColumns+" FROM reports ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []*secondary.VisitRecord
	for rows.Next() {
		record, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// ListPending retrieves visits with delivery_state = pending, oldest first.
func (r *VisitRepository) ListPending(ctx context.Context) ([]*secondary.PendingVisit, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, pdf_path, client, technician FROM reports WHERE delivery_state = ? ORDER BY id ASC",
		int(visit.StatePending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending visits: %w", err)
	}
	defer rows.Close()

	var pending []*secondary.PendingVisit
	for rows.Next() {
		var (
			p       secondary.PendingVisit
			pdfPath sql.NullString
		)
		if err := rows.Scan(&p.ID, &pdfPath, &p.ClientName, &p.TechnicianName); err != nil {
			return nil, fmt.Errorf("failed to scan pending visit: %w", err)
		}
		p.PDFPath = pdfPath.String
		pending = append(pending, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pending visits: %w", err)
	}
	return pending, nil
}

// Count returns the number of visits.
func (r *VisitRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return n, nil
}

// CountByClient returns visit counts per client, largest first.
func (r *VisitRepository) CountByClient(ctx context.Context) ([]*secondary.GroupCount, error) {
	return r.countBy(ctx, "client")
}

// CountByTechnician returns visit counts per technician, largest first.
func (r *VisitRepository) CountByTechnician(ctx context.Context) ([]*secondary.GroupCount, error) {
	return r.countBy(ctx, "technician")
}

func (r *VisitRepository) countBy(ctx context.Context, column string) ([]*secondary.GroupCount, error) {
	query := fmt.Sprintf(
		"SELECT %[1]s, COUNT(*) FROM reports GROUP BY %[1]s ORDER BY COUNT(*) DESC, %[1]s ASC", column,
	)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits by %s: %w", column, err)
	}
	defer rows.Close()

	var counts []*secondary.GroupCount
	for rows.Next() {
		var c secondary.GroupCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*secondary.VisitRecord, error) {
	var (
		record                                   secondary.VisitRecord
		notes, photos, pdfPath, entries, lat, lon sql.NullString
		state                                    sql.NullInt64
	)
	err := row.Scan(&record.ID, &record.Timestamp, &record.ClientName, &record.TechnicianName,
		&notes, &photos, &pdfPath, &entries, &state, &lat, &lon)
	if err != nil {
		return nil, err
	}

	record.Notes = notes.String
	record.PDFPath = pdfPath.String
	record.DeliveryState = visit.DeliveryState(state.Int64)
	record.Latitude = lat.String
	record.Longitude = lon.String

	if record.PhotoPaths, err = visit.UnmarshalPhotos(photos.String); err != nil {
		return nil, fmt.Errorf("visit %d: %w", record.ID, err)
	}
	if record.UserEntries, err = visit.UnmarshalEntries(entries.String); err != nil {
		return nil, fmt.Errorf("visit %d: %w", record.ID, err)
	}
	return &record, nil
}

func encodeVisitJSON(record *secondary.VisitRecord) (string, string, error) {
	photos, err := visit.MarshalPhotos(record.PhotoPaths)
	if err != nil {
		return "", "", err
	}
	entries, err := visit.MarshalEntries(record.UserEntries)
	if err != nil {
		return "", "", err
	}
	return photos, entries, nil
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("visit %d %w", id, secondary.ErrNotFound)
	}
	return nil
}

// Ensure VisitRepository implements the interface.
var _ secondary.VisitRepository = (*VisitRepository)(nil)
