package repository

import "database/sql"

// CountRow is one bucket of a GROUP BY count (e.g. severity "high" -> 12).
type CountRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// scanCounts drains a two-column (label, count) result set.
func scanCounts(rows *sql.Rows) ([]CountRow, error) {
	defer rows.Close()
	var out []CountRow
	for rows.Next() {
		var cr CountRow
		if err := rows.Scan(&cr.Label, &cr.Count); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
