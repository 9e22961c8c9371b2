package mapping

import "database/sql"

func ValueToSQLNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func SQLNullStringToValue(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func PointerToSQLNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func SQLNullInt64ToPointer(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	val := v.Int64
	return &val
}
