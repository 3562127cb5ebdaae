// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/dberr"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// PostgresRepository implements [Repository] on core.review and core.reviewlike.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed review store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectReview = `
	SELECT
		r.id, r.bookid, r.clubid, r.userid, r.username, r.rating, r.title, r.content,
		r.createdat, r.updatedat,
		(SELECT COUNT(*) FROM core.reviewlike l WHERE l.reviewid = r.id) AS likescount
	FROM core.review r`

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.BookID, &review.ClubID, &review.UserID, &review.Username, &review.Rating,
		&review.Title, &review.Content, &review.CreatedAt, &review.UpdatedAt, &review.LikesCount,
	)
	return review, err
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, bookID string, limit, offset int) ([]*Review, int, error) {
	if !uuid.Valid(bookID) {
		return []*Review{}, 0, nil
	}

	var total int
	if err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM core.review WHERE bookid = $1`, bookID,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Review", "count_reviews")
	}

	rows, err := repository.db.Query(context,
		selectReview+` WHERE r.bookid = $1 ORDER BY r.createdat ASC, r.id ASC LIMIT $2 OFFSET $3`,
		bookID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Review", "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Review", "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, dberr.Wrap(rows.Err(), "Review", "list_reviews")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, bookID, reviewID string) (*Review, error) {
	if !uuid.Valid(bookID) || !uuid.Valid(reviewID) {
		return nil, apperr.NotFound("Review")
	}

	review, err := scanReview(repository.db.QueryRow(context,
		selectReview+` WHERE r.id = $1 AND r.bookid = $2`, reviewID, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "Review", "find_review")
	}
	return review, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	const query = `
		INSERT INTO core.review (id, bookid, clubid, userid, username, rating, title, content, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := repository.db.Exec(context, query,
		review.ID, review.BookID, review.ClubID, review.UserID, review.Username,
		review.Rating, review.Title, review.Content, review.CreatedAt,
	)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("You have already reviewed this book")
	}
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Book")
	}
	if err != nil {
		return dberr.Wrap(err, "Review", "insert_review")
	}

	review.LikesCount = 0
	return nil
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	const query = `
		UPDATE core.review SET rating = $2, title = $3, content = $4, updatedat = $5
		WHERE id = $1
		RETURNING (SELECT COUNT(*) FROM core.reviewlike l WHERE l.reviewid = $1)`

	err := repository.db.QueryRow(context, query,
		review.ID, review.Rating, review.Title, review.Content, review.UpdatedAt,
	).Scan(&review.LikesCount)

	return dberr.Wrap(err, "Review", "update_review")
}

// Delete implements [Repository]. Likes cascade.
func (repository *PostgresRepository) Delete(context context.Context, reviewID string) error {
	if !uuid.Valid(reviewID) {
		return apperr.NotFound("Review")
	}

	tag, err := repository.db.Exec(context, `DELETE FROM core.review WHERE id = $1`, reviewID)
	if err != nil {
		return dberr.Wrap(err, "Review", "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// AddLike implements [Repository].
func (repository *PostgresRepository) AddLike(context context.Context, reviewID, userID string) error {
	if !uuid.Valid(reviewID) {
		return apperr.NotFound("Review")
	}

	_, err := repository.db.Exec(context,
		`INSERT INTO core.reviewlike (reviewid, userid, likedat) VALUES ($1, $2, NOW())`, reviewID, userID)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Already liked this review")
	}
	return dberr.Wrap(err, "Review", "insert_like")
}

// RemoveLike implements [Repository].
func (repository *PostgresRepository) RemoveLike(context context.Context, reviewID, userID string) error {
	if !uuid.Valid(reviewID) || !uuid.Valid(userID) {
		return apperr.NotFound("Like")
	}

	tag, err := repository.db.Exec(context,
		`DELETE FROM core.reviewlike WHERE reviewid = $1 AND userid = $2`, reviewID, userID)
	if err != nil {
		return dberr.Wrap(err, "Like", "delete_like")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Like")
	}
	return nil
}

// DeleteByClub implements [Repository].
func (repository *PostgresRepository) DeleteByClub(context context.Context, clubID string) error {
	if !uuid.Valid(clubID) {
		return nil
	}

	_, err := repository.db.Exec(context, `DELETE FROM core.review WHERE clubid = $1`, clubID)
	return dberr.Wrap(err, "Review", "delete_club_reviews")
}
