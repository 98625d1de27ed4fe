package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// revision is the change marker of one stored key.
type revision struct {
	Key      string
	Revision int64
	Writer   string
}

// ScanRevision scans a single key revision from a database row
func ScanRevision(scanner Scanner) (*revision, error) {
	r := &revision{}
	if err := scanner.Scan(&r.Key, &r.Revision, &r.Writer); err != nil {
		return nil, err
	}
	return r, nil
}

// ScanRevisions scans every key revision from database rows
func ScanRevisions(rows Rows) ([]*revision, error) {
	var revisions []*revision
	for rows.Next() {
		r, err := ScanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return revisions, nil
}
