// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

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

// PostgresRepository implements [Repository] on core.book, core.bookvote
// and core.readingprogress.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed book store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectBook = `
	SELECT
		b.id, b.clubid, b.title, b.author, b.isbn, b.description, b.coverurl,
		b.status, b.proposedby, b.proposedat, b.totalpages,
		(SELECT COUNT(*) FROM core.bookvote v WHERE v.bookid = b.id) AS votes
	FROM core.book b`

func scanBook(row pgx.Row) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID, &book.ClubID, &book.Title, &book.Author, &book.ISBN, &book.Description, &book.CoverURL,
		&book.Status, &book.ProposedBy, &book.ProposedAt, &book.TotalPages, &book.Votes,
	)
	return book, err
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, clubID string, filter Filter, limit, offset int) ([]*Book, int, error) {
	if !uuid.Valid(clubID) {
		return []*Book{}, 0, nil
	}

	var args postgres.Args
	var where strings.Builder
	where.WriteString(" WHERE b.clubid = " + args.Add(clubID))
	if filter.Status != nil {
		where.WriteString(" AND b.status = " + args.Add(*filter.Status))
	}

	var total int
	if err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM core.book b`+where.String(), args.Values()...,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Book", "count_books")
	}

	query := selectBook + where.String() +
		" ORDER BY b.proposedat ASC, b.id ASC LIMIT " + args.Add(limit) + " OFFSET " + args.Add(offset)

	rows, err := repository.db.Query(context, query, args.Values()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Book", "list_books")
	}
	defer rows.Close()

	books := make([]*Book, 0, limit)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Book", "scan_book")
		}
		books = append(books, book)
	}

	return books, total, dberr.Wrap(rows.Err(), "Book", "list_books")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, clubID, bookID string) (*Book, error) {
	if !uuid.Valid(clubID) || !uuid.Valid(bookID) {
		return nil, apperr.NotFound("Book")
	}

	book, err := scanBook(repository.db.QueryRow(context, selectBook+` WHERE b.id = $1 AND b.clubid = $2`, bookID, clubID))
	if err != nil {
		return nil, dberr.Wrap(err, "Book", "find_book")
	}
	return book, nil
}

/*
Create inserts the book and the proposer's vote in one transaction.

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: apperr.NotFound (club) or persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		const insertBook = `
			INSERT INTO core.book (id, clubid, title, author, isbn, description, coverurl, status, proposedby, proposedat, totalpages)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

		_, err := tx.Exec(context, insertBook,
			book.ID, book.ClubID, book.Title, book.Author, book.ISBN, book.Description, book.CoverURL,
			book.Status, book.ProposedBy, book.ProposedAt, book.TotalPages,
		)
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Club")
		}
		if err != nil {
			return dberr.Wrap(err, "Book", "insert_book")
		}

		return insertVote(context, tx, book.ID, book.ProposedBy)
	})
	if err != nil {
		return err
	}

	book.Votes = 1
	return nil
}

// UpdateStatus implements [Repository].
func (repository *PostgresRepository) UpdateStatus(context context.Context, book *Book) error {
	const query = `
		UPDATE core.book SET status = $2 WHERE id = $1
		RETURNING (SELECT COUNT(*) FROM core.bookvote v WHERE v.bookid = $1)`

	err := repository.db.QueryRow(context, query, book.ID, book.Status).Scan(&book.Votes)
	return dberr.Wrap(err, "Book", "update_book_status")
}

// AddVote implements [Repository].
func (repository *PostgresRepository) AddVote(context context.Context, bookID, userID string) error {
	if !uuid.Valid(bookID) {
		return apperr.NotFound("Book")
	}
	return insertVote(context, repository.db, bookID, userID)
}

// RemoveVote implements [Repository].
func (repository *PostgresRepository) RemoveVote(context context.Context, bookID, userID string) error {
	if !uuid.Valid(bookID) || !uuid.Valid(userID) {
		return apperr.NotFound("Vote")
	}

	tag, err := repository.db.Exec(context, `DELETE FROM core.bookvote WHERE bookid = $1 AND userid = $2`, bookID, userID)
	if err != nil {
		return dberr.Wrap(err, "Vote", "delete_vote")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Vote")
	}
	return nil
}

func insertVote(context context.Context, db postgres.Querier, bookID, userID string) error {
	_, err := db.Exec(context,
		`INSERT INTO core.bookvote (bookid, userid, votedat) VALUES ($1, $2, NOW())`, bookID, userID)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Already voted for this book")
	}
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Book")
	}
	return dberr.Wrap(err, "Vote", "insert_vote")
}

const selectProgress = `
	SELECT userid, bookid, clubid, currentpage, totalpages, percentage, status, lastupdated
	FROM core.readingprogress`

func scanProgress(row pgx.Row) (*Progress, error) {
	progress := &Progress{}
	err := row.Scan(
		&progress.UserID, &progress.BookID, &progress.ClubID, &progress.CurrentPage,
		&progress.TotalPages, &progress.Percentage, &progress.Status, &progress.LastUpdated,
	)
	return progress, err
}

// FindProgress implements [Repository].
func (repository *PostgresRepository) FindProgress(context context.Context, userID, bookID string) (*Progress, error) {
	if !uuid.Valid(userID) || !uuid.Valid(bookID) {
		return nil, apperr.NotFound("Reading progress")
	}

	progress, err := scanProgress(repository.db.QueryRow(context,
		selectProgress+` WHERE userid = $1 AND bookid = $2`, userID, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "Reading progress", "find_progress")
	}
	return progress, nil
}

/*
SaveProgress upserts a progress row and reports the row it replaced.

A placeholder row is claimed first so that the subsequent SELECT ... FOR UPDATE
always has a row to lock; concurrent writers for the same reader then
serialize and each sees the status its predecessor committed.

Parameters:
  - context: context.Context
  - progress: *Progress

Returns:
  - *Progress: Previous row, nil when this call created it
  - error: apperr.NotFound (book) or persistence failures
*/
func (repository *PostgresRepository) SaveProgress(context context.Context, progress *Progress) (*Progress, error) {
	var previous *Progress

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		const claim = `
			INSERT INTO core.readingprogress (userid, bookid, clubid, currentpage, totalpages, percentage, status, lastupdated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (userid, bookid) DO NOTHING`

		tag, err := tx.Exec(context, claim,
			progress.UserID, progress.BookID, progress.ClubID, progress.CurrentPage,
			progress.TotalPages, progress.Percentage, progress.Status, progress.LastUpdated,
		)
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Book")
		}
		if err != nil {
			return dberr.Wrap(err, "Reading progress", "claim_progress")
		}
		if tag.RowsAffected() == 1 {
			return nil
		}

		previous, err = scanProgress(tx.QueryRow(context,
			selectProgress+` WHERE userid = $1 AND bookid = $2 FOR UPDATE`, progress.UserID, progress.BookID))
		if err != nil {
			return dberr.Wrap(err, "Reading progress", "lock_progress")
		}

		const update = `
			UPDATE core.readingprogress
			SET currentpage = $3, totalpages = $4, percentage = $5, status = $6, lastupdated = $7
			WHERE userid = $1 AND bookid = $2`

		_, err = tx.Exec(context, update,
			progress.UserID, progress.BookID, progress.CurrentPage,
			progress.TotalPages, progress.Percentage, progress.Status, progress.LastUpdated,
		)
		return dberr.Wrap(err, "Reading progress", "update_progress")
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// DeleteByClub implements [Repository]. Votes and progress cascade with each book.
func (repository *PostgresRepository) DeleteByClub(context context.Context, clubID string) error {
	if !uuid.Valid(clubID) {
		return nil
	}

	_, err := repository.db.Exec(context, `DELETE FROM core.book WHERE clubid = $1`, clubID)
	return dberr.Wrap(err, "Book", "delete_club_books")
}
