// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/dberr"
	"github.com/taibuivan/bookcircle/internal/platform/postgres"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// PostgresRepository implements [Repository] on core.club and core.clubmember.
//
// MemberCount is a correlated sub-select; memberships cascade with the club.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed club store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectClub = `
	SELECT
		c.id, c.name, c.description, c.theme, c.isprivate, c.createdby, c.createdat, c.updatedat,
		(SELECT COUNT(*) FROM core.clubmember m WHERE m.clubid = c.id) AS membercount
	FROM core.club c`

func scanClub(row pgx.Row) (*Club, error) {
	club := &Club{}
	err := row.Scan(
		&club.ID, &club.Name, &club.Description, &club.Theme, &club.IsPrivate,
		&club.CreatedBy, &club.CreatedAt, &club.UpdatedAt, &club.MemberCount,
	)
	return club, err
}

/*
List retrieves a filtered window of clubs, oldest first.

Search uses ILIKE on name OR description; accents are not folded here.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Club: Slice of matching clubs
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Club, int, error) {
	var where strings.Builder
	where.WriteString(" WHERE TRUE")

	var args postgres.Args
	if filter.Theme != nil {
		where.WriteString(" AND LOWER(c.theme) = LOWER(" + args.Add(*filter.Theme) + ")")
	}
	if filter.Search != "" {
		pattern := args.Add(postgres.ContainsPattern(filter.Search))
		where.WriteString(" AND (c.name ILIKE " + pattern + " OR c.description ILIKE " + pattern + ")")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM core.club c` + where.String()
	if err := repository.db.QueryRow(context, countQuery, args.Values()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Club", "count_clubs")
	}

	listQuery := selectClub + where.String() +
		" ORDER BY c.createdat ASC, c.id ASC LIMIT " + args.Add(limit) + " OFFSET " + args.Add(offset)

	rows, err := repository.db.Query(context, listQuery, args.Values()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Club", "list_clubs")
	}
	defer rows.Close()

	clubs := make([]*Club, 0, limit)
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Club", "scan_club")
		}
		clubs = append(clubs, club)
	}

	return clubs, total, dberr.Wrap(rows.Err(), "Club", "list_clubs")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Club, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Club")
	}

	club, err := scanClub(repository.db.QueryRow(context, selectClub+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Club", "find_club")
	}
	return club, nil
}

/*
Create inserts the club and its admin membership in one transaction.

Parameters:
  - context: context.Context
  - club: *Club
  - owner: *Member

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, club *Club, owner *Member) error {
	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		const insertClub = `
			INSERT INTO core.club (id, name, description, theme, isprivate, createdby, createdat)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, err := tx.Exec(context, insertClub,
			club.ID, club.Name, club.Description, club.Theme, club.IsPrivate, club.CreatedBy, club.CreatedAt,
		); err != nil {
			return dberr.Wrap(err, "Club", "insert_club")
		}

		return insertMember(context, tx, owner)
	})
	if err != nil {
		return err
	}

	club.MemberCount = 1
	return nil
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(context context.Context, club *Club) error {
	const query = `
		UPDATE core.club
		SET name = $2, description = $3, theme = $4, isprivate = $5, updatedat = $6
		WHERE id = $1
		RETURNING (SELECT COUNT(*) FROM core.clubmember m WHERE m.clubid = $1)`

	err := repository.db.QueryRow(context, query,
		club.ID, club.Name, club.Description, club.Theme, club.IsPrivate, club.UpdatedAt,
	).Scan(&club.MemberCount)

	return dberr.Wrap(err, "Club", "update_club")
}

// Delete implements [Repository]. Memberships and all club content cascade.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Club")
	}

	tag, err := repository.db.Exec(context, `DELETE FROM core.club WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Club", "delete_club")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Club")
	}
	return nil
}

const selectMember = `
	SELECT clubid, userid, username, role, joinedat, booksread
	FROM core.clubmember`

func scanMember(row pgx.Row) (*Member, error) {
	member := &Member{}
	err := row.Scan(&member.ClubID, &member.UserID, &member.Username, &member.Role, &member.JoinedAt, &member.BooksRead)
	return member, err
}

// FindMember implements [Repository].
func (repository *PostgresRepository) FindMember(context context.Context, clubID, userID string) (*Member, error) {
	if !uuid.Valid(clubID) || !uuid.Valid(userID) {
		return nil, apperr.NotFound("Membership")
	}

	member, err := scanMember(repository.db.QueryRow(context, selectMember+` WHERE clubid = $1 AND userid = $2`, clubID, userID))
	if err != nil {
		return nil, dberr.Wrap(err, "Membership", "find_member")
	}
	return member, nil
}

// ListMembers implements [Repository].
func (repository *PostgresRepository) ListMembers(context context.Context, clubID string, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM core.clubmember WHERE clubid = $1`, clubID,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Membership", "count_members")
	}

	rows, err := repository.db.Query(context,
		selectMember+` WHERE clubid = $1 ORDER BY joinedat ASC, userid ASC LIMIT $2 OFFSET $3`,
		clubID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Membership", "list_members")
	}
	defer rows.Close()

	members := make([]*Member, 0, limit)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Membership", "scan_member")
		}
		members = append(members, member)
	}

	return members, total, dberr.Wrap(rows.Err(), "Membership", "list_members")
}

// AddMember implements [Repository].
func (repository *PostgresRepository) AddMember(context context.Context, member *Member) error {
	return insertMember(context, repository.db, member)
}

// RemoveMember implements [Repository].
func (repository *PostgresRepository) RemoveMember(context context.Context, clubID, userID string) error {
	return repository.execMember(context, `DELETE FROM core.clubmember WHERE clubid = $1 AND userid = $2`, clubID, userID)
}

// IncrementBooksRead implements [Repository].
func (repository *PostgresRepository) IncrementBooksRead(context context.Context, clubID, userID string) error {
	return repository.execMember(context,
		`UPDATE core.clubmember SET booksread = booksread + 1 WHERE clubid = $1 AND userid = $2`, clubID, userID)
}

func (repository *PostgresRepository) execMember(context context.Context, query, clubID, userID string) error {
	if !uuid.Valid(clubID) || !uuid.Valid(userID) {
		return apperr.NotFound("Membership")
	}

	tag, err := repository.db.Exec(context, query, clubID, userID)
	if err != nil {
		return dberr.Wrap(err, "Membership", "update_member")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Membership")
	}
	return nil
}

func insertMember(context context.Context, db postgres.Querier, member *Member) error {
	const query = `
		INSERT INTO core.clubmember (clubid, userid, username, role, joinedat, booksread)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(context, query,
		member.ClubID, member.UserID, member.Username, member.Role, member.JoinedAt, member.BooksRead,
	)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Already a member of this club")
	}
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Club")
	}
	return dberr.Wrap(err, "Membership", "insert_member")
}
