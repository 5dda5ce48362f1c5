package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

const (
	queryGetIdentity = `SELECT id, mobile_number, role, verified FROM auth_users WHERE mobile_number = $1`

	queryMarkVerified = `UPDATE auth_users SET verified = TRUE WHERE mobile_number = $1 AND verified = FALSE`

	queryCreateIdentity = `INSERT INTO auth_users (mobile_number, role) VALUES ($1, $2) RETURNING id`
)

func (s *DB) GetIdentity(ctx context.Context, mobile string) (_ *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentity")
	defer func() { s.endSpan(span, err) }()

	var (
		ident entity.Identity
		role  string
	)
	if err = s.conn.QueryRow(ctx, queryGetIdentity, mobile).Scan(&ident.ID, &ident.Mobile, &role, &ident.Verified); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	ident.Role = entity.ParseRole(role)

	return &ident, nil
}

// MarkVerified flips the verified flag once. It reports true only for the call
// that changed it.
func (s *DB) MarkVerified(ctx context.Context, mobile string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryMarkVerified, mobile)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// CreateIdentity registers a mobile number. It exists for seeding and tests;
// registration proper belongs to the user service.
func (s *DB) CreateIdentity(ctx context.Context, mobile string, role entity.Role) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateIdentity")
	defer func() { s.endSpan(span, err) }()

	var id int64
	if err = s.conn.QueryRow(ctx, queryCreateIdentity, mobile, role.String()).Scan(&id); err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return id, nil
}
